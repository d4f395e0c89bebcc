package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"othello_ai/internal/domain/match"
)

const standingsCollection = "standings"

// StandingsRepository keeps tournament reports. Only the aggregate table of
// each tournament is stored, never individual games.
type StandingsRepository struct {
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewStandingsRepository(log *zap.SugaredLogger, db *mongo.Database) *StandingsRepository {
	return &StandingsRepository{
		log:   log,
		mongo: db,
	}
}

func (s *StandingsRepository) SaveReport(ctx context.Context, report match.Report) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := s.mongo.Collection(standingsCollection)
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": report.ID}, report, opts); err != nil {
		s.log.Errorf("failed to save tournament %s: %v", report.ID, err)
		return fmt.Errorf("save tournament %s: %w", report.ID, err)
	}
	s.log.Infof("tournament %s saved with %d standings", report.ID, len(report.Standings))
	return nil
}

func (s *StandingsRepository) GetReport(ctx context.Context, id string) (match.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var report match.Report
	err := s.mongo.Collection(standingsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return report, fmt.Errorf("tournament %s: %w", id, err)
	} else if err != nil {
		s.log.Error(err)
		return report, err
	}
	return report, nil
}

// LatestReports returns up to limit reports, newest first.
func (s *StandingsRepository) LatestReports(ctx context.Context, limit int64) ([]match.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}).SetLimit(limit)
	cursor, err := s.mongo.Collection(standingsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		s.log.Error(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []match.Report
	for cursor.Next(ctx) {
		var report match.Report
		if err := cursor.Decode(&report); err != nil {
			s.log.Error(err)
			return result, err
		}
		result = append(result, report)
	}
	return result, cursor.Err()
}
