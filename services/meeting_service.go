// File: /services/meeting_service.go
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrMeetingCreation wraps every failure of the external meeting-link call.
// Callers must treat it as total failure and leave the session untouched.
var ErrMeetingCreation = errors.New("meeting link creation failed")

type MeetingService struct {
	apiURL string
	apiKey string
	client *http.Client
}

type meetingRequest struct {
	Summary       string       `json:"summary"`
	Description   string       `json:"description"`
	Start         meetingStart `json:"start"`
	AttendeeEmail string       `json:"attendee_email"`
}

type meetingStart struct {
	DateTime string `json:"dateTime"`
}

type meetingResponse struct {
	MeetLink string `json:"meetLink"`
	Error    string `json:"error,omitempty"`
}

func NewMeetingService(apiURL, apiKey string) *MeetingService {
	return &MeetingService{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateMeeting requests a meeting link for a scheduled session. Any non-2xx
// response or transport error is returned wrapped in ErrMeetingCreation.
func (ms *MeetingService) CreateMeeting(summary, description string, start time.Time, attendeeEmail string) (string, error) {
	reqBody := meetingRequest{
		Summary:       summary,
		Description:   description,
		Start:         meetingStart{DateTime: start.Format(time.RFC3339)},
		AttendeeEmail: attendeeEmail,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrMeetingCreation, err)
	}

	req, err := http.NewRequest("POST", ms.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrMeetingCreation, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if ms.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", ms.apiKey))
	}

	resp, err := ms.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", ErrMeetingCreation, err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: upstream error (status %d): %s", ErrMeetingCreation, resp.StatusCode, string(bodyBytes))
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("%w: rejected request (status %d): %s", ErrMeetingCreation, resp.StatusCode, string(bodyBytes))
	}

	var meetResp meetingResponse
	if err := json.Unmarshal(bodyBytes, &meetResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrMeetingCreation, err)
	}

	if meetResp.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrMeetingCreation, meetResp.Error)
	}

	if meetResp.MeetLink == "" {
		return "", fmt.Errorf("%w: empty meeting link in response", ErrMeetingCreation)
	}

	return meetResp.MeetLink, nil
}
