package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("redis: key not found")

type IRedis interface {
	// Calibration sessions are interactive and single-writer per drawing;
	// they live here with a TTL so an abandoned flow cleans itself up.
	SetCalibrationSession(ctx context.Context, drawingID string, payload []byte, expiration time.Duration) error
	GetCalibrationSession(ctx context.Context, drawingID string) ([]byte, error)
	DeleteCalibrationSession(ctx context.Context, drawingID string) error

	// NextRunSequence hands out a monotonically increasing sequence per
	// drawing so a slow analysis run can be detected as superseded.
	NextRunSequence(ctx context.Context, drawingID string) (int64, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func calibrationKey(drawingID string) string {
	return fmt.Sprintf("calibration:%s", drawingID)
}

func runSequenceKey(drawingID string) string {
	return fmt.Sprintf("analysis_seq:%s", drawingID)
}

func (r *redisClient) SetCalibrationSession(ctx context.Context, drawingID string, payload []byte, expiration time.Duration) error {
	logrus.Debug(fmt.Sprintf("Storing calibration session for drawing %s with expiration %v", drawingID, expiration))
	err := r.client.Set(ctx, calibrationKey(drawingID), payload, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error storing calibration session for drawing %s: %v", drawingID, err))
		return err
	}
	return nil
}

func (r *redisClient) GetCalibrationSession(ctx context.Context, drawingID string) ([]byte, error) {
	val, err := r.client.Get(ctx, calibrationKey(drawingID)).Bytes()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("No calibration session found for drawing %s", drawingID))
		return nil, ErrNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting calibration session for drawing %s: %v", drawingID, err))
		return nil, err
	}
	return val, nil
}

func (r *redisClient) DeleteCalibrationSession(ctx context.Context, drawingID string) error {
	_, err := r.client.Del(ctx, calibrationKey(drawingID)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting calibration session for drawing %s: %v", drawingID, err))
		return err
	}
	return nil
}

func (r *redisClient) NextRunSequence(ctx context.Context, drawingID string) (int64, error) {
	seq, err := r.client.Incr(ctx, runSequenceKey(drawingID)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error incrementing run sequence for drawing %s: %v", drawingID, err))
		return 0, err
	}
	return seq, nil
}
