package config

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// OpenMongo подключается к MongoDB, проверяет соединение (Ping)
// и гарантирует уникальный индекс по email в коллекции пользователей.
//
// Возвращает клиента (его нужно закрыть через Disconnect при остановке)
// и коллекцию пользователей.
func OpenMongo(ctx context.Context, dbCfg DBConfig, log *zap.Logger) (*mongo.Client, *mongo.Collection, error) {
	connectCtx, cancel := context.WithTimeout(ctx, dbCfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(dbCfg.DSN)
	if dbCfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(dbCfg.MaxOpenConns))
	}
	if dbCfg.ConnMaxIdleTime > 0 {
		opts.SetMaxConnIdleTime(dbCfg.ConnMaxIdleTime)
	}

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		log.Error("error to connect mongo", zap.Error(err))
		return nil, nil, err
	}

	if err = client.Ping(connectCtx, nil); err != nil {
		log.Error("error check mongo connection", zap.Error(err))
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	coll := client.Database(dbCfg.Database).Collection(dbCfg.Collection)
	if err = EnsureUserIndexes(connectCtx, coll); err != nil {
		log.Error("error creating mongo indexes", zap.Error(err))
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Info("mongo connected",
		zap.String("database", dbCfg.Database),
		zap.String("collection", dbCfg.Collection),
	)
	return client, coll, nil
}

// EnsureUserIndexes создаёт уникальный индекс по email.
// Уникальность email обеспечивает хранилище, а не проверка перед вставкой.
func EnsureUserIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("создание индекса uniq_email: %w", err)
	}
	return nil
}
