package repository

import (
	"context"
	"errors"
	"time"

	"pawperfection/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// paymentDoc is the BSON shape of a payment record. UUIDs are stored as
// strings to keep the documents readable and portable.
type paymentDoc struct {
	ID                string     `bson:"_id"`
	UserID            string     `bson:"userId"`
	TrainingProgramID string     `bson:"trainingProgramId"`
	Price             float64    `bson:"price"`
	Currency          string     `bson:"currency"`
	SessionID         string     `bson:"sessionId"`
	OrderID           string     `bson:"orderId"`
	Status            string     `bson:"status"`
	PaymentStatus     string     `bson:"paymentStatus"`
	PaymentMethod     string     `bson:"paymentMethod"`
	PaymentDate       *time.Time `bson:"paymentDate,omitempty"`
	IdempotencyKey    *string    `bson:"idempotencyKey,omitempty"`
	CreatedAt         time.Time  `bson:"createdAt"`
	UpdatedAt         time.Time  `bson:"updatedAt"`
}

func toDoc(p *models.Payment) paymentDoc {
	return paymentDoc{
		ID:                p.ID.String(),
		UserID:            p.UserID.String(),
		TrainingProgramID: p.TrainingProgramID.String(),
		Price:             p.Price,
		Currency:          p.Currency,
		SessionID:         p.SessionID,
		OrderID:           p.OrderID,
		Status:            string(p.Status),
		PaymentStatus:     string(p.PaymentStatus),
		PaymentMethod:     string(p.PaymentMethod),
		PaymentDate:       p.PaymentDate,
		IdempotencyKey:    p.IdempotencyKey,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (d paymentDoc) toModel() (*models.Payment, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, err
	}
	programID, err := uuid.Parse(d.TrainingProgramID)
	if err != nil {
		return nil, err
	}
	return &models.Payment{
		ID:                id,
		UserID:            userID,
		TrainingProgramID: programID,
		Price:             d.Price,
		Currency:          d.Currency,
		SessionID:         d.SessionID,
		OrderID:           d.OrderID,
		Status:            models.PaymentStatus(d.Status),
		PaymentStatus:     models.PaymentStatus(d.PaymentStatus),
		PaymentMethod:     models.PaymentMethod(d.PaymentMethod),
		PaymentDate:       d.PaymentDate,
		IdempotencyKey:    d.IdempotencyKey,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, nil
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepository returns the document-store implementation of
// the payment record store, selected with DB_DRIVER=mongo.
func NewMongoPaymentRepository(db *mongo.Database) PaymentRepository {
	return &mongoPaymentRepo{coll: db.Collection("payments")}
}

// EnsureMongoIndexes installs the same uniqueness guarantees the
// Postgres migration creates: one completed payment per (user, program)
// and a per-user unique idempotency key.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("payments")
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "trainingProgramId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(models.PaymentStatusCompleted)}),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "idempotencyKey", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotencyKey": bson.M{"$type": "string"}}),
		},
		{Keys: bson.D{{Key: "sessionId", Value: 1}}},
		{Keys: bson.D{{Key: "orderId", Value: 1}}},
	})
	return err
}

func (r *mongoPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, toDoc(payment))
	return err
}

func (r *mongoPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoPaymentRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID.String()},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	for cursor.Next(ctx) {
		var doc paymentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		p, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, cursor.Err()
}

func (r *mongoPaymentRepo) FindBySessionOrOrderID(ctx context.Context, providerID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"sessionId": providerID},
		bson.M{"orderId": providerID},
	}})
}

func (r *mongoPaymentRepo) FindCompleted(ctx context.Context, userID, trainingProgramID uuid.UUID) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{
		"userId":            userID.String(),
		"trainingProgramId": trainingProgramID.String(),
		"status":            string(models.PaymentStatusCompleted),
	})
}

func (r *mongoPaymentRepo) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{
		"userId":         userID.String(),
		"idempotencyKey": key,
	})
}

func (r *mongoPaymentRepo) SetSessionIDs(ctx context.Context, id uuid.UUID, sessionID string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": bson.M{
		"sessionId": sessionID,
		"orderId":   sessionID,
		"updatedAt": time.Now(),
	}})
	return err
}

func (r *mongoPaymentRepo) ApplyUpdate(ctx context.Context, id uuid.UUID, update PaymentUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}
	if update.PaymentStatus != nil {
		set["paymentStatus"] = string(*update.PaymentStatus)
	}
	if update.PaymentMethod != nil {
		set["paymentMethod"] = string(*update.PaymentMethod)
	}
	if update.OrderID != nil {
		set["orderId"] = *update.OrderID
	}
	if update.Currency != nil {
		set["currency"] = *update.Currency
	}
	if update.PaymentDate != nil {
		set["paymentDate"] = *update.PaymentDate
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set})
	return err
}

func (r *mongoPaymentRepo) findOne(ctx context.Context, filter bson.M) (*models.Payment, error) {
	var doc paymentDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toModel()
}
