package domain

import (
	"encoding/json"
	"fmt"
)

// SearchRequest is the body sent to the search webhook.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResult represents a single hit from one of the integrated sources.
// Results are immutable once received and owned by the response they came in.
type SearchResult struct {
	// Source is the service the result came from.
	Source SearchSource `json:"source"`

	// Title is the document, message, card or event title.
	// It may contain HTML entities; see DecodeEntities.
	Title string `json:"title"`

	// Snippet is a short excerpt with matched text.
	Snippet string `json:"snippet"`

	// URL opens the result in its originating service.
	URL string `json:"url"`

	// Date is a loosely ISO formatted timestamp; see ParseResultDate.
	Date string `json:"date"`

	// Relevance is the score assigned by the workflow.
	Relevance float64 `json:"relevance"`

	// Metadata is the source-specific record, kept undecoded.
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// DriveMetadata is the metadata of a Google Drive result.
type DriveMetadata struct {
	FileType string `json:"fileType,omitempty"`
	FileID   string `json:"fileId,omitempty"`
}

// TrelloMetadata is the metadata of a Trello result.
type TrelloMetadata struct {
	ListName  string `json:"listName,omitempty"`
	BoardName string `json:"boardName,omitempty"`
	CardID    string `json:"cardId,omitempty"`
}

// GmailMetadata is the metadata of a Gmail result.
type GmailMetadata struct {
	From      string `json:"from,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	ThreadID  string `json:"threadId,omitempty"`
}

// OneDriveMetadata is the metadata of a OneDrive result.
type OneDriveMetadata struct {
	FileID   string `json:"fileId,omitempty"`
	IsFolder bool   `json:"isFolder,omitempty"`
}

// CalendarMetadata is the metadata of a Google Calendar result.
type CalendarMetadata struct {
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Location  string `json:"location,omitempty"`
	EventID   string `json:"eventId,omitempty"`
}

// DecodeMetadata decodes the raw metadata into the record matching the
// result's source. The returned value is one of DriveMetadata, TrelloMetadata,
// GmailMetadata, OneDriveMetadata or CalendarMetadata.
// Returns ErrUnsupportedSource for unknown sources.
func (r *SearchResult) DecodeMetadata() (any, error) {
	var target any
	switch r.Source {
	case SourceGoogleDrive:
		target = &DriveMetadata{}
	case SourceTrello:
		target = &TrelloMetadata{}
	case SourceGmail:
		target = &GmailMetadata{}
	case SourceOneDrive:
		target = &OneDriveMetadata{}
	case SourceGoogleCalendar:
		target = &CalendarMetadata{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, r.Source)
	}

	if len(r.Metadata) > 0 && string(r.Metadata) != "null" {
		if err := json.Unmarshal(r.Metadata, target); err != nil {
			return nil, fmt.Errorf("decode %s metadata: %w", r.Source, err)
		}
	}

	switch m := target.(type) {
	case *DriveMetadata:
		return *m, nil
	case *TrelloMetadata:
		return *m, nil
	case *GmailMetadata:
		return *m, nil
	case *OneDriveMetadata:
		return *m, nil
	case *CalendarMetadata:
		return *m, nil
	}
	return nil, ErrUnsupportedSource
}

// MetadataSummary returns a one-line description of the source-specific
// metadata, or an empty string when there is nothing worth showing.
func (r *SearchResult) MetadataSummary() string {
	meta, err := r.DecodeMetadata()
	if err != nil {
		return ""
	}

	switch m := meta.(type) {
	case DriveMetadata:
		return m.FileType
	case TrelloMetadata:
		switch {
		case m.BoardName != "" && m.ListName != "":
			return m.BoardName + " › " + m.ListName
		case m.BoardName != "":
			return m.BoardName
		default:
			return m.ListName
		}
	case GmailMetadata:
		if m.From != "" {
			return "from " + m.From
		}
	case OneDriveMetadata:
		if m.IsFolder {
			return "folder"
		}
	case CalendarMetadata:
		if m.Location != "" {
			return "at " + m.Location
		}
	}
	return ""
}

// ServiceError reports that one upstream service failed while the others
// may still have returned results.
type ServiceError struct {
	Source  SearchSource `json:"source"`
	Message string       `json:"message"`
}

// SearchResponse is the aggregated response of the search webhook.
type SearchResponse struct {
	// Success is the workflow's own success flag.
	Success bool `json:"success"`

	// Query echoes the query the workflow ran.
	Query string `json:"query"`

	// TotalResults is the count reported by the workflow.
	TotalResults int `json:"totalResults"`

	// Results are the hits in workflow order.
	Results []SearchResult `json:"results"`

	// Errors lists per-service failures.
	Errors []ServiceError `json:"errors"`

	// HasErrors is the workflow's flag for partial failures.
	// It is not guaranteed to agree with Errors.
	HasErrors bool `json:"hasErrors"`
}

// ServiceErrors returns the per-service errors worth showing.
// The decision is taken from the error list itself, not from HasErrors.
func (r *SearchResponse) ServiceErrors() []ServiceError {
	if r == nil {
		return nil
	}
	return r.Errors
}

// IsPartial reports whether some services failed.
func (r *SearchResponse) IsPartial() bool {
	return len(r.ServiceErrors()) > 0
}

// IsEmpty reports whether the response carries no results.
func (r *SearchResponse) IsEmpty() bool {
	return r == nil || (r.TotalResults == 0 && len(r.Results) == 0)
}

// Normalise replaces nil slices with empty ones so renderers and JSON
// output never see null collections.
func (r *SearchResponse) Normalise() {
	if r.Results == nil {
		r.Results = []SearchResult{}
	}
	if r.Errors == nil {
		r.Errors = []ServiceError{}
	}
}

// Clone returns a copy of the response whose slices do not alias r.
func (r *SearchResponse) Clone() *SearchResponse {
	if r == nil {
		return nil
	}
	out := *r
	out.Results = append([]SearchResult(nil), r.Results...)
	out.Errors = append([]ServiceError(nil), r.Errors...)
	out.Normalise()
	return &out
}
