package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
)

const (
	colAppointments = "appointments"
	colSlots        = "appointmentSlots"
	colPayments     = "payments"
	colUsers        = "users"
)

// MongoStore implements Store on a MongoDB database. Transactions use driver
// sessions; WithTransaction retries on transient and write-conflict labels, so
// two transactions racing on the same documents serialize instead of both
// committing.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

func (s *MongoStore) Appointment(ctx context.Context, id string) (*models.Appointment, error) {
	var apt models.Appointment
	err := s.db.Collection(colAppointments).FindOne(ctx, bson.M{"_id": id}).Decode(&apt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &apt, nil
}

func (s *MongoStore) InsertAppointment(ctx context.Context, apt *models.Appointment) error {
	_, err := s.db.Collection(colAppointments).InsertOne(ctx, apt)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

func (s *MongoStore) UpdateAppointment(ctx context.Context, apt *models.Appointment) error {
	_, err := s.db.Collection(colAppointments).ReplaceOne(ctx, bson.M{"_id": apt.ID}, apt)
	return err
}

func (s *MongoStore) SlotLock(ctx context.Context, key string) (*models.SlotLock, error) {
	var lock models.SlotLock
	err := s.db.Collection(colSlots).FindOne(ctx, bson.M{"_id": key}).Decode(&lock)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lock, nil
}

func (s *MongoStore) InsertSlotLock(ctx context.Context, lock *models.SlotLock) error {
	_, err := s.db.Collection(colSlots).InsertOne(ctx, lock)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

func (s *MongoStore) DeleteSlotLock(ctx context.Context, key string) error {
	_, err := s.db.Collection(colSlots).DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (s *MongoStore) PaymentRecord(ctx context.Context, transactionID string) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	err := s.db.Collection(colPayments).FindOne(ctx, bson.M{"_id": transactionID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *MongoStore) InsertPaymentRecord(ctx context.Context, rec *models.PaymentRecord) error {
	_, err := s.db.Collection(colPayments).InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

func (s *MongoStore) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	query := bson.M{}
	if filter.PatientID != "" {
		query["patientId"] = filter.PatientID
	}
	if filter.DoctorID != "" {
		query["doctorId"] = filter.DoctorID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(colAppointments).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *MongoStore) User(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) InsertUser(ctx context.Context, user *models.User) error {
	_, err := s.db.Collection(colUsers).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}
