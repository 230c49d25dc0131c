package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection            = "users"
	AttendanceMonthsCollection = "attendance_months"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

func ConnectDB(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongodb: %w", err)
	}

	Client = client
	DB = client.Database(dbName)
	slog.Info("connected to mongodb", "database", dbName)
	return nil
}

// EnsureIndexes creates the indexes the attendance store relies on. The
// unique month index keeps one document per month even under racing uploads.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(AttendanceMonthsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "month", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("month_unique"),
	})
	if err != nil {
		return fmt.Errorf("create month index: %w", err)
	}
	_, err = db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_ci").
			SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	})
	if err != nil {
		return fmt.Errorf("create user name index: %w", err)
	}
	return nil
}

func Disconnect() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		slog.Error("mongodb disconnect failed", "error", err)
	}
}
