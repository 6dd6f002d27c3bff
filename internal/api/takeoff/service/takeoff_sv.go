package takeoffService

import (
	"EstimAgent/internal/api/analysis"
	"EstimAgent/internal/api/project"
	"EstimAgent/internal/api/takeoff"
	"EstimAgent/internal/entity"
	contextPkg "EstimAgent/pkg/context"
	"EstimAgent/pkg/geometry"
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// GenerateTakeoff quantifies the drawing's latest analysis run: one line per
// room with its area, one per wall run with its linear feet, and per-room
// counts of doors and windows.
func (s *takeoffService) GenerateTakeoff(ctx context.Context, drawingID string, owner string) (*takeoff.TakeoffResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if err := s.authorizeDrawing(ctx, drawingID, owner); err != nil {
		return nil, err
	}

	analysisRepo, err := s.analysisRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	run, err := analysisRepo.Runs.GetLatestRunByDrawing(ctx, drawingID)
	if err != nil {
		if errors.Is(err, analysis.ErrRunNotFound) {
			return nil, takeoff.ErrNoAnalysisRun
		}
		return nil, err
	}

	detections, err := analysisRepo.Detections.GetDetectionsByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	takeoffID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return nil, err
	}

	items := buildItems(detections)
	for i := range items {
		itemID, err := s.utils.NewULIDFromTimestamp(time.Now())
		if err != nil {
			return nil, err
		}
		items[i].ID = itemID
		items[i].TakeoffID = takeoffID
	}

	t := entity.Takeoff{
		ID:        takeoffID,
		DrawingID: drawingID,
		RunID:     run.ID,
		Items:     items,
		CreatedAt: time.Now(),
	}

	repo, err := s.takeoffRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}
	defer repo.Rollback()

	if err := repo.Takeoffs.CreateTakeoff(ctx, t); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create takeoff")
		return nil, takeoff.ErrCreateTakeoff
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit takeoff")
		return nil, takeoff.ErrCreateTakeoff
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"drawing_id": drawingID,
		"takeoff_id": takeoffID,
		"run_id":     run.ID,
		"items":      len(items),
	}).Info("Takeoff generated")

	return s.makeResponse(t), nil
}

func (s *takeoffService) GetTakeoffByID(ctx context.Context, id string, owner string) (*takeoff.TakeoffResponse, error) {
	repo, err := s.takeoffRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	t, err := repo.Takeoffs.GetTakeoffByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeDrawing(ctx, t.DrawingID, owner); err != nil {
		return nil, err
	}

	return s.makeResponse(t), nil
}

func (s *takeoffService) GetLatestTakeoff(ctx context.Context, drawingID string, owner string) (*takeoff.TakeoffResponse, error) {
	if err := s.authorizeDrawing(ctx, drawingID, owner); err != nil {
		return nil, err
	}

	repo, err := s.takeoffRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	t, err := repo.Takeoffs.GetLatestTakeoffByDrawing(ctx, drawingID)
	if err != nil {
		return nil, err
	}

	return s.makeResponse(t), nil
}

// buildItems turns a reconciled detection list into takeoff lines. Openings
// are attached to the room whose polygon contains their centroid; when no
// room contains it (detector masks rarely line up exactly at doorways), the
// room with the nearest centroid is used instead.
func buildItems(detections []entity.ReconciledDetection) []entity.TakeoffItem {
	type room struct {
		id       string
		region   []geometry.Point
		centroid geometry.Point
	}

	var rooms []room
	var items []entity.TakeoffItem

	for _, d := range detections {
		if d.Category != entity.CategoryRoom {
			continue
		}
		region := d.Region()
		if len(region) < 3 {
			continue
		}
		rooms = append(rooms, room{
			id:       d.ID,
			region:   region,
			centroid: geometry.Centroid(region),
		})
		items = append(items, entity.TakeoffItem{
			DetectionID: d.ID,
			RoomID:      d.ID,
			Class:       d.Class,
			Category:    entity.CategoryRoom,
			AreaSqft:    d.Display.AreaSqft,
			PerimeterFt: d.Display.PerimeterFt,
			Count:       1,
		})
	}

	assignRoom := func(p geometry.Point) string {
		for _, rm := range rooms {
			if geometry.PointInPolygon(p, rm.region) {
				return rm.id
			}
		}

		bestID := ""
		bestDist := 0.0
		for i, rm := range rooms {
			dist := geometry.Distance(p, rm.centroid)
			if i == 0 || dist < bestDist {
				bestID = rm.id
				bestDist = dist
			}
		}
		return bestID
	}

	// Openings collapse into per-room, per-class counts.
	type openingKey struct {
		roomID string
		class  string
	}
	openingCounts := make(map[openingKey]int)
	openingFirst := make(map[openingKey]string)

	for _, d := range detections {
		switch d.Category {
		case entity.CategoryWall:
			items = append(items, entity.TakeoffItem{
				DetectionID: d.ID,
				Class:       d.Class,
				Category:    entity.CategoryWall,
				PerimeterFt: d.Display.PerimeterFt,
				Count:       1,
			})
		case entity.CategoryOpening:
			region := d.Region()
			if len(region) == 0 {
				continue
			}
			key := openingKey{
				roomID: assignRoom(geometry.Centroid(region)),
				class:  d.Class,
			}
			openingCounts[key]++
			if _, seen := openingFirst[key]; !seen {
				openingFirst[key] = d.ID
			}
		}
	}

	openingKeys := make([]openingKey, 0, len(openingCounts))
	for key := range openingCounts {
		openingKeys = append(openingKeys, key)
	}
	sort.Slice(openingKeys, func(i, j int) bool {
		if openingKeys[i].roomID != openingKeys[j].roomID {
			return openingKeys[i].roomID < openingKeys[j].roomID
		}
		return openingKeys[i].class < openingKeys[j].class
	})

	for _, key := range openingKeys {
		items = append(items, entity.TakeoffItem{
			DetectionID: openingFirst[key],
			RoomID:      key.roomID,
			Class:       key.class,
			Category:    entity.CategoryOpening,
			Count:       openingCounts[key],
		})
	}

	return items
}

func (s *takeoffService) authorizeDrawing(ctx context.Context, drawingID string, owner string) error {
	repo, err := s.projectRepo.NewClient(false)
	if err != nil {
		return err
	}

	d, err := repo.Drawings.GetDrawingByID(ctx, drawingID)
	if err != nil {
		return err
	}

	p, err := repo.Projects.GetProjectByID(ctx, d.ProjectID)
	if err != nil {
		return err
	}
	if p.Owner != owner {
		return project.ErrProjectNotOwned
	}

	return nil
}

func (s *takeoffService) makeResponse(t entity.Takeoff) *takeoff.TakeoffResponse {
	items := t.Items
	if items == nil {
		items = []entity.TakeoffItem{}
	}

	return &takeoff.TakeoffResponse{
		ID:        t.ID,
		DrawingID: t.DrawingID,
		RunID:     t.RunID,
		Items:     items,
		CreatedAt: t.CreatedAt,
	}
}
