package config

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var MongoConn *mongo.Client

var DBName string = "parlour-dashboard"
var UserCollection string = "users"
var EmployeeCollection string = "employees"
var AttendanceCollection string = "attendances"
var TaskCollection string = "tasks"

func MongoConnect(mongoURI string) {
	if mongoURI == "" {
		log.Fatal("MONGOSTRING is not set in env")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB!")
	MongoConn = client
}

func GetDatabase() *mongo.Database {
	if MongoConn == nil {
		log.Fatal("MongoDB client is not initialised. Call MongoConnect() first")
	}
	return MongoConn.Database(DBName)
}

func GetCollection(collectionName string) *mongo.Collection {
	return GetDatabase().Collection(collectionName)
}

// InitDatabase creates the indexes the application relies on. The unique
// (employee_id, day) index is what keeps one attendance record per employee
// per day when two first punches race.
func InitDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		AttendanceCollection: {
			{
				Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "day", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("employee_day_unique"),
			},
			{
				Keys: bson.D{{Key: "day", Value: -1}, {Key: "punch_in_at", Value: -1}},
			},
		},
		EmployeeCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "is_active", Value: 1}},
			},
		},
		UserCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		TaskCollection: {
			{
				Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "status", Value: 1}},
			},
			{
				Keys: bson.D{{Key: "created_at", Value: -1}},
			},
		},
	}

	for collection, models := range indexes {
		names, err := GetCollection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			log.Fatalf("Failed to create indexes on %s: %v", collection, err)
		}
		log.Printf("Indexes ready on %s: %v", collection, names)
	}
}

func DisconnectDB() {
	if MongoConn != nil {
		if err := MongoConn.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
			return
		}
		log.Println("Disconnected from MongoDB")
	}
}
