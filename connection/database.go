package connection

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"civicreport/configs"
	"civicreport/repository"
	"civicreport/services"

	firebase "firebase.google.com/go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/api/option"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

// DBConnection opens the relational store named by STORE_DRIVER.
func DBConnection(cfg *configs.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DBSource)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBSource)
	default:
		return nil, fmt.Errorf("store driver %q is not relational", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if cfg.StoreDriver == "sqlite" {
		// sqlite allows one writer at a time
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// FBConnection initializes the Firebase app from FB_SERVICE_KEY (base64
// service-account JSON), GOOGLE_APPLICATION_CREDENTIALS, or the ambient
// Google credentials, in that order.
func FBConnection(ctx context.Context, cfg *configs.Config) (*firebase.App, error) {
	var opts []option.ClientOption
	switch {
	case cfg.FBServiceKey != "":
		key, err := base64.StdEncoding.DecodeString(cfg.FBServiceKey)
		if err != nil {
			return nil, fmt.Errorf("decode FB_SERVICE_KEY: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(key))
	case cfg.FBCredentials != "":
		opts = append(opts, option.WithCredentialsFile(cfg.FBCredentials))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	return app, nil
}

func MongoConnection(ctx context.Context, cfg *configs.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client.Database(cfg.MongoDB), nil
}

// OpenStore builds the repositories for STORE_DRIVER. app is used only by
// the firestore driver and may be nil otherwise.
func OpenStore(ctx context.Context, cfg *configs.Config, app func() (*firebase.App, error)) (*repository.Store, error) {
	switch cfg.StoreDriver {
	case "firestore":
		fb, err := app()
		if err != nil {
			return nil, err
		}
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("error initializing firestore client: %w", err)
		}
		return repository.NewFirestoreStore(client), nil
	case "mongo":
		db, err := MongoConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewMongoStore(ctx, db)
	default:
		db, err := DBConnection(cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewGormStore(db)
	}
}

// NewVerifier picks the identity check for AUTH_MODE.
func NewVerifier(ctx context.Context, cfg *configs.Config, app func() (*firebase.App, error)) (services.TokenVerifier, error) {
	if cfg.AuthMode == "jwt" {
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("AUTH_MODE=jwt needs JWT_SECRET_KEY")
		}
		slog.Warn("using shared-secret identity tokens; not for production")
		return &services.JWTVerifier{Secret: []byte(cfg.JWTSecret)}, nil
	}

	fb, err := app()
	if err != nil {
		return nil, err
	}
	client, err := fb.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase auth: %w", err)
	}
	return &services.FirebaseVerifier{Client: client}, nil
}
