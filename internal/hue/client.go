// internal/hue/client.go
// Package hue talks to a Philips Hue bridge over its v1 REST API and
// manages per-lamp state sessions.
package hue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrHandshakeRejected indicates the bridge refused to create a user
// (usually the link button was not pressed)
var ErrHandshakeRejected = errors.New("bridge rejected handshake")

// Controller is the subset of bridge operations a lamp session needs.
type Controller interface {
	LampState(ctx context.Context, id int) (State, error)
	SetLampState(ctx context.Context, id int, upd StateUpdate) error
}

// StateUpdate is the PUT body for a lamp state write. Nil fields are
// omitted so a write only touches what it names.
type StateUpdate struct {
	On             *bool       `json:"on,omitempty"`
	Bri            *int        `json:"bri,omitempty"`
	CT             *int        `json:"ct,omitempty"`
	Hue            *int        `json:"hue,omitempty"`
	Sat            *int        `json:"sat,omitempty"`
	XY             *[2]float64 `json:"xy,omitempty"`
	TransitionTime *uint16     `json:"transitiontime,omitempty"`
}

// LampInfo identifies one lamp known to the bridge.
type LampInfo struct {
	ID   int
	Name string
}

// lampResource is the GET lights/<id> response body.
type lampResource struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	State rawState `json:"state"`
}

// rawState is the wire form of a lamp state. Hue, sat and xy are
// pointers because white-only lamps omit them.
type rawState struct {
	On  bool        `json:"on"`
	Bri int         `json:"bri"`
	CT  int         `json:"ct"`
	Hue *int        `json:"hue"`
	Sat *int        `json:"sat"`
	XY  *[2]float64 `json:"xy"`
}

// apiResult is one entry of the array the bridge returns for writes
// and for the handshake. Exactly one of Success/Error is set.
type apiResult struct {
	Success map[string]any `json:"success,omitempty"`
	Error   *apiError      `json:"error,omitempty"`
}

// apiError is a bridge-level (not transport-level) failure report.
type apiError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func (e *apiError) String() string {
	return fmt.Sprintf("type %d at %s: %s", e.Type, e.Address, e.Description)
}

// Client is an authenticated v1 API client for a single bridge.
type Client struct {
	address    string
	username   string
	httpClient *http.Client
}

// NewClient creates a bridge client. address is the bridge IP or
// hostname, username the credential obtained during setup.
func NewClient(address, username string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		address:    address,
		username:   username,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("http://%s/api/%s/%s", c.address, c.username, path)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status code %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

func (c *Client) put(ctx context.Context, path string, body any) ([]apiResult, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url(path), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PUT %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PUT %s: unexpected status code %d", path, resp.StatusCode)
	}
	var results []apiResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("PUT %s: decode response: %w", path, err)
	}
	return results, nil
}

// LampState reads the current state of one lamp.
func (c *Client) LampState(ctx context.Context, id int) (State, error) {
	var lamp lampResource
	if err := c.get(ctx, fmt.Sprintf("lights/%d", id), &lamp); err != nil {
		return State{}, err
	}

	st := NewState(lamp.State.On, lamp.State.Bri, lamp.State.CT)
	if lamp.State.Hue != nil {
		st = st.WithHue(*lamp.State.Hue)
	}
	if lamp.State.Sat != nil {
		st = st.WithSaturation(*lamp.State.Sat)
	}
	if lamp.State.XY != nil {
		st = st.WithXY(lamp.State.XY[0], lamp.State.XY[1])
	}
	return st, nil
}

// SetLampState writes a lamp state. Transport and HTTP failures are
// returned as errors; bridge-reported error entries are logged with
// the operation context and swallowed, so a single refused field does
// not abort a running message.
func (c *Client) SetLampState(ctx context.Context, id int, upd StateUpdate) error {
	results, err := c.put(ctx, fmt.Sprintf("lights/%d/state", id), upd)
	if err != nil {
		return err
	}
	reportErrors(results, "set_lamp")
	return nil
}

// Lamps lists all lamps known to the bridge, sorted by ID.
func (c *Client) Lamps(ctx context.Context) ([]LampInfo, error) {
	var raw map[string]lampResource
	if err := c.get(ctx, "lights", &raw); err != nil {
		return nil, err
	}

	lamps := make([]LampInfo, 0, len(raw))
	for key, lamp := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			log.Warn().Str("id", key).Msg("Skipping lamp with non-numeric ID")
			continue
		}
		lamps = append(lamps, LampInfo{ID: id, Name: lamp.Name})
	}
	sort.Slice(lamps, func(i, j int) bool { return lamps[i].ID < lamps[j].ID })
	return lamps, nil
}

// Handshake registers a new user on the bridge at address. The bridge
// link button must have been pressed shortly before the call. Returns
// the credential to store in the configuration.
func Handshake(ctx context.Context, address string, timeout time.Duration) (string, error) {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	body, err := json.Marshal(map[string]string{"devicetype": "mhue client"})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("http://%s/api", address), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: timeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("handshake: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("handshake: unexpected status code %d", resp.StatusCode)
	}
	var results []apiResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("handshake: decode response: %w", err)
	}
	if reportErrors(results, "handshake") {
		return "", ErrHandshakeRejected
	}
	for _, r := range results {
		if username, ok := r.Success["username"].(string); ok && username != "" {
			return username, nil
		}
	}
	return "", fmt.Errorf("handshake: no username in bridge response")
}

// reportErrors logs every bridge error entry in results, tagged with
// the operation that triggered it, and reports whether any was found.
func reportErrors(results []apiResult, op string) bool {
	found := false
	for _, r := range results {
		if r.Error != nil {
			found = true
			log.Warn().
				Str("context", op).
				Str("error", r.Error.String()).
				Msg("Bridge responded with an error")
		}
	}
	return found
}
