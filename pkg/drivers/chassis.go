package drivers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stager00/crawlmap/internal/httpc"
	"github.com/stager00/crawlmap/pkg/motion"
)

// ChassisClient drives the crawler through its HTTP daemon. One client
// serves both locomotion (POST /move) and the ultrasonic ranger
// (GET /distance).
type ChassisClient struct {
	BaseURL string
	client  *http.Client
}

// NewChassisClient creates a client for the daemon at baseURL,
// e.g. "http://192.168.4.1:8000".
func NewChassisClient(baseURL string) *ChassisClient {
	return &ChassisClient{
		BaseURL: baseURL,
		client:  httpc.Client,
	}
}

// Execute queues a gait command on the chassis. The daemon returns as soon
// as the command is accepted; the gait itself runs asynchronously.
func (c *ChassisClient) Execute(cmd motion.Command, speed int) error {
	payload := map[string]interface{}{
		"action": cmd.Kind.String(),
		"speed":  speed,
	}
	if cmd.IsTurn() {
		payload["angle"] = cmd.Angle
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("chassis: encode move: %w", err)
	}

	resp, err := c.client.Post(c.BaseURL+"/move", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("chassis: move: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chassis: move: status %d", resp.StatusCode)
	}
	return nil
}

// Read returns the current ultrasonic distance. Any transport or sensor
// failure reports ok=false; one missed reading is not worth surfacing
// beyond "no data this cycle".
func (c *ChassisClient) Read() (float64, bool) {
	resp, err := c.client.Get(c.BaseURL + "/distance")
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, false
	}

	var out struct {
		Distance *float64 `json:"distance_cm"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Distance == nil {
		return 0, false
	}
	return *out.Distance, true
}
