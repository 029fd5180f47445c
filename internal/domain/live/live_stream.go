package live

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// StreamStatus represents the lifecycle state of a live stream
type StreamStatus string

const (
	StreamStatusScheduled StreamStatus = "scheduled"
	StreamStatusLive      StreamStatus = "live"
	StreamStatusEnded     StreamStatus = "ended"
)

// IsValid checks if the status is known
func (s StreamStatus) IsValid() bool {
	return s == StreamStatusScheduled || s == StreamStatusLive || s == StreamStatusEnded
}

// LiveStream is a broadcast session with its audience counters and pinned product
type LiveStream struct {
	shared.BaseAggregateRoot
	Title           string
	Description     string
	HostID          uuid.UUID
	RoomID          string
	Status          StreamStatus
	ViewerCount     int
	PeakViewers     int
	PinnedProductID *uuid.UUID
	ScheduledAt     *time.Time
	StartedAt       *time.Time
	EndedAt         *time.Time
}

// NewLiveStream creates a scheduled live stream hosted by an admin
func NewLiveStream(title, description string, hostID uuid.UUID, scheduledAt *time.Time) (*LiveStream, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if hostID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_HOST", "Host ID cannot be empty")
	}

	stream := &LiveStream{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             strings.TrimSpace(title),
		Description:       description,
		HostID:            hostID,
		Status:            StreamStatusScheduled,
		ScheduledAt:       scheduledAt,
	}
	stream.RoomID = "room_" + strings.ReplaceAll(stream.ID.String(), "-", "")[:16]

	return stream, nil
}

// Update changes the descriptive fields of a stream that has not ended
func (s *LiveStream) Update(title, description string, scheduledAt *time.Time) error {
	if s.Status == StreamStatusEnded {
		return shared.NewDomainError("INVALID_STATE", "Cannot update an ended live stream")
	}
	if err := validateTitle(title); err != nil {
		return err
	}
	s.Title = strings.TrimSpace(title)
	s.Description = description
	s.ScheduledAt = scheduledAt
	s.touch(time.Now())
	return nil
}

// Start puts a scheduled stream on air
func (s *LiveStream) Start() error {
	if s.Status != StreamStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start live stream in %s status", s.Status))
	}
	now := time.Now()
	s.Status = StreamStatusLive
	s.StartedAt = &now
	s.ViewerCount = 0
	s.PeakViewers = 0
	s.touch(now)

	s.AddDomainEvent(NewLiveStreamStartedEvent(s))
	return nil
}

// End takes a live stream off air and records its final audience counters
func (s *LiveStream) End(finalViewers, peakViewers int) error {
	if s.Status != StreamStatusLive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot end live stream in %s status", s.Status))
	}
	now := time.Now()
	s.Status = StreamStatusEnded
	s.EndedAt = &now
	s.SyncViewers(finalViewers, peakViewers)
	s.touch(now)

	s.AddDomainEvent(NewLiveStreamEndedEvent(s))
	return nil
}

// SyncViewers copies the audience counters, keeping the peak monotonic
func (s *LiveStream) SyncViewers(current, peak int) {
	if current < 0 {
		current = 0
	}
	s.ViewerCount = current
	if peak < current {
		peak = current
	}
	if peak > s.PeakViewers {
		s.PeakViewers = peak
	}
}

// PinProduct highlights a product during the stream; nil clears the pin
func (s *LiveStream) PinProduct(productID *uuid.UUID) error {
	if s.Status == StreamStatusEnded {
		return shared.NewDomainError("INVALID_STATE", "Cannot pin a product on an ended live stream")
	}
	s.PinnedProductID = productID
	s.touch(time.Now())
	return nil
}

// IsLive returns true while the stream is on air
func (s *LiveStream) IsLive() bool {
	return s.Status == StreamStatusLive
}

// Duration returns how long the stream was (or has been) on air
func (s *LiveStream) Duration(now time.Time) time.Duration {
	if s.StartedAt == nil {
		return 0
	}
	if s.EndedAt != nil {
		return s.EndedAt.Sub(*s.StartedAt)
	}
	return now.Sub(*s.StartedAt)
}

func (s *LiveStream) touch(now time.Time) {
	s.UpdatedAt = now
	s.IncrementVersion()
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	return nil
}
