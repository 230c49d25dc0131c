package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/waliamehak/staff-attendance-portal/internal/database"
	"github.com/waliamehak/staff-attendance-portal/internal/models"
)

var ErrNotFound = errors.New("attendance month not found")

// AttendanceRepository stores one document per attendance month.
type AttendanceRepository interface {
	ReplaceMonth(ctx context.Context, doc models.AttendanceMonth) (*models.AttendanceMonth, error)
	FindMonth(ctx context.Context, month string) (*models.AttendanceMonth, error)
	ListMonths(ctx context.Context) ([]models.AttendanceMonthSummary, error)
}

type MongoAttendance struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewMongoAttendance(db *mongo.Database, timeout time.Duration) *MongoAttendance {
	return &MongoAttendance{
		col:     db.Collection(database.AttendanceMonthsCollection),
		timeout: timeout,
	}
}

// ReplaceMonth upserts the month document in a single write. The records
// array is overwritten, never merged, so concurrent uploads for one month
// resolve as last write wins.
func (m *MongoAttendance) ReplaceMonth(ctx context.Context, doc models.AttendanceMonth) (*models.AttendanceMonth, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	now := doc.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	records := doc.Records
	if records == nil {
		records = []models.AttendanceRecord{}
	}

	update := bson.M{
		"$set": bson.M{
			"sourceFileName": doc.SourceFileName,
			"records":        records,
			"uploadedBy":     doc.UploadedBy,
			"updatedAt":      now,
		},
		// month comes from the filter on insert
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.AttendanceMonth
	err := m.col.FindOneAndUpdate(ctx, bson.M{"month": doc.Month}, update, opts).Decode(&saved)
	if err != nil {
		return nil, fmt.Errorf("upsert attendance month %s: %w", doc.Month, err)
	}
	return &saved, nil
}

func (m *MongoAttendance) FindMonth(ctx context.Context, month string) (*models.AttendanceMonth, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var doc models.AttendanceMonth
	err := m.col.FindOne(ctx, bson.M{"month": month}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find attendance month %s: %w", month, err)
	}
	return &doc, nil
}

func (m *MongoAttendance) ListMonths(ctx context.Context) ([]models.AttendanceMonthSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"_id":            0,
			"month":          1,
			"sourceFileName": 1,
			"updatedAt":      1,
			"recordCount":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$records", bson.A{}}}},
		}}},
		{{Key: "$sort", Value: bson.M{"month": -1}}},
	}
	cursor, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list attendance months: %w", err)
	}
	defer cursor.Close(ctx)

	months := []models.AttendanceMonthSummary{}
	if err := cursor.All(ctx, &months); err != nil {
		return nil, fmt.Errorf("decode attendance months: %w", err)
	}
	return months, nil
}

// MongoStaff resolves record names against the users collection.
type MongoStaff struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewMongoStaff(db *mongo.Database, timeout time.Duration) *MongoStaff {
	return &MongoStaff{
		col:     db.Collection(database.UsersCollection),
		timeout: timeout,
	}
}

// ResolveNames matches names case-insensitively and returns ids keyed by
// the lower-cased name. Names shared by several users are left unresolved.
func (m *MongoStaff) ResolveNames(ctx context.Context, names []string) (map[string]primitive.ObjectID, error) {
	out := map[string]primitive.ObjectID{}
	if len(names) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "name": 1}).
		SetCollation(&options.Collation{Locale: "en", Strength: 2})
	cursor, err := m.col.Find(ctx, bson.M{"name": bson.M{"$in": names}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find staff by name: %w", err)
	}
	defer cursor.Close(ctx)

	ambiguous := map[string]bool{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(user.Name))
		if _, dup := out[key]; dup {
			ambiguous[key] = true
			continue
		}
		out[key] = user.ID
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff: %w", err)
	}
	for key := range ambiguous {
		delete(out, key)
	}
	return out, nil
}
