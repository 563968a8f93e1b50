// Package drafting calls the external text-generation service to draft
// guest-facing messages. It is never on the booking or ledger critical path;
// a failure here changes no hotel state.
package drafting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"hotel-pms-backend/config"
	"hotel-pms-backend/internal/model"
)

// MessageKind selects which guest message to draft.
type MessageKind string

const (
	KindWelcome        MessageKind = "welcome"
	KindSpecialRequest MessageKind = "special_request"
	KindFollowUp       MessageKind = "follow_up"
)

// ValidMessageKind reports whether k is a known message kind.
func ValidMessageKind(k MessageKind) bool {
	switch k {
	case KindWelcome, KindSpecialRequest, KindFollowUp:
		return true
	}
	return false
}

// Client talks to a generateContent-style text API.
type Client struct {
	cfg    config.DraftingConfig
	client *http.Client
}

// NewClient creates a drafting client from config.
func NewClient(cfg config.DraftingConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether an upstream URL is configured.
func (c *Client) Enabled() bool {
	return c.cfg.URL != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Draft generates a guest message of the given kind for a booking.
func (c *Client) Draft(ctx context.Context, kind MessageKind, booking *model.Booking) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("drafting service is not configured")
	}

	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: BuildPrompt(kind, booking)}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", strings.TrimSuffix(c.cfg.URL, "/"), c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("drafting request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("drafting service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode drafting response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("drafting service returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// BuildPrompt assembles the natural-language prompt for a message kind.
func BuildPrompt(kind MessageKind, b *model.Booking) string {
	var sb strings.Builder
	switch kind {
	case KindWelcome:
		sb.WriteString("Draft a warm welcome message for a hotel guest. Keep it concise, friendly, and professional. ")
		sb.WriteString("Include their name, room type, check-in date, and check-out date. ")
		sb.WriteString("Encourage them to let us know if they need anything during their stay.\n\n")
		fmt.Fprintf(&sb, "Guest Name: %s\n", b.GuestName)
		fmt.Fprintf(&sb, "Room Type: %s\n", b.RoomType)
		fmt.Fprintf(&sb, "Check-in Date: %s\n", b.CheckInDate)
		fmt.Fprintf(&sb, "Check-out Date: %s\n", b.CheckOutDate)
	case KindSpecialRequest:
		sb.WriteString("Draft a polite and helpful response to a hotel guest's special request. ")
		sb.WriteString("Acknowledge their request and state how the hotel plans to fulfill it. ")
		sb.WriteString("If it's not fully possible, offer a reasonable alternative. Keep the tone courteous and customer-focused.\n\n")
		fmt.Fprintf(&sb, "Guest Name: %s\n", b.GuestName)
		fmt.Fprintf(&sb, "Room Type: %s\n", b.RoomType)
		request := b.SpecialRequests
		if request == "" {
			request = "No specific details provided."
		}
		fmt.Fprintf(&sb, "Special Request: %s\n", request)
	case KindFollowUp:
		sb.WriteString("Draft a polite follow-up message for a hotel guest after their stay. ")
		sb.WriteString("Thank them for staying with us and invite them to leave feedback or return in the future.\n\n")
		fmt.Fprintf(&sb, "Guest Name: %s\n", b.GuestName)
		fmt.Fprintf(&sb, "Check-out Date: %s\n", b.CheckOutDate)
	}
	return sb.String()
}
