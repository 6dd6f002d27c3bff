package detector

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"EstimAgent/internal/entity"
	"golang.org/x/net/context"
)

// openingClasses keeps only doors and windows from the opening model, which
// also emits room/wall predictions that belong to the dedicated models.
var openingClasses = []string{"door", "window", "Door", "Window"}

// hostedModel is one remote inference model: rooms, walls, or doors/windows.
type hostedModel struct {
	modelID string
	apiKey  string
	filter  []string
}

// hostedDetector calls the hosted inference API, one model per detection
// type, mirroring the upstream ML service configuration.
type hostedDetector struct {
	baseURL string
	client  *http.Client
	rooms   hostedModel
	walls   hostedModel
	opening hostedModel
}

// NewHostedDetector builds the primary detector from environment
// configuration. Model IDs take the "project/version" form; a missing model
// ID disables that detection type rather than failing the whole detector.
func NewHostedDetector() Detector {
	baseURL := os.Getenv("INFERENCE_API_URL")
	if baseURL == "" {
		baseURL = "https://detect.roboflow.com"
	}

	return &hostedDetector{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		rooms: hostedModel{
			modelID: os.Getenv("ROOM_MODEL_ID"),
			apiKey:  os.Getenv("ROOM_API_KEY"),
		},
		walls: hostedModel{
			modelID: os.Getenv("WALL_MODEL_ID"),
			apiKey:  os.Getenv("WALL_API_KEY"),
		},
		opening: hostedModel{
			modelID: os.Getenv("DOORWINDOW_MODEL_ID"),
			apiKey:  os.Getenv("DOORWINDOW_API_KEY"),
			filter:  openingClasses,
		},
	}
}

func (d *hostedDetector) Source() entity.Source {
	return entity.SourcePrimary
}

func (d *hostedDetector) Detect(ctx context.Context, image []byte, opts Options) ([]entity.Detection, error) {
	var out []entity.Detection

	models := []struct {
		t     DetectionType
		model hostedModel
	}{
		{RoomDetection, d.rooms},
		{WallDetection, d.walls},
		{OpeningDetection, d.opening},
	}

	var lastErr error
	succeeded := false

	for _, m := range models {
		if !wantsType(opts, m.t) {
			continue
		}
		if m.model.modelID == "" {
			lastErr = fmt.Errorf("%s model not configured", m.t)
			continue
		}

		preds, err := d.infer(ctx, image, m.model, opts)
		if err != nil {
			lastErr = fmt.Errorf("%s model inference failed: %w", m.t, err)
			continue
		}

		succeeded = true
		out = append(out, normalize(preds, entity.SourcePrimary, m.model.filter)...)
	}

	// One broken model must not discard the others' results.
	if !succeeded && lastErr != nil {
		return nil, lastErr
	}

	return out, nil
}

func (d *hostedDetector) infer(ctx context.Context, image []byte, model hostedModel, opts Options) ([]rawPrediction, error) {
	if model.apiKey == "" {
		return nil, fmt.Errorf("missing API key for model %s", model.modelID)
	}

	params := url.Values{}
	params.Set("api_key", model.apiKey)
	if opts.Confidence != nil {
		params.Set("confidence", strconv.FormatFloat(*opts.Confidence, 'f', -1, 64))
	}
	if opts.Overlap != nil {
		params.Set("overlap", strconv.FormatFloat(*opts.Overlap, 'f', -1, 64))
	}

	endpoint := fmt.Sprintf("%s/%s?%s", d.baseURL, model.modelID, params.Encode())
	body := base64.StdEncoding.EncodeToString(image)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed rawResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse inference response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("inference API error: %s", parsed.Error)
	}

	return parsed.Predictions, nil
}
