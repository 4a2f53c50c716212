package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/eflixapp/eflix-server/internal/domain"
	domainerrors "github.com/eflixapp/eflix-server/internal/errors"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMyList",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/mylist",
		Summary:     "List saved videos",
		Description: "Returns the current user's saved videos",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyList)

	huma.Register(s.api, huma.Operation{
		OperationID: "addToMyList",
		Method:      http.MethodPost,
		Path:        "/api/v1/library/mylist",
		Summary:     "Save video",
		Description: "Saves a video on the current user's list. Saving the same video twice overwrites the stored record.",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddToMyList)

	huma.Register(s.api, huma.Operation{
		OperationID: "listHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/history",
		Summary:     "List viewing history",
		Description: "Returns the current user's viewing history, most recent first",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordPlay",
		Method:      http.MethodPost,
		Path:        "/api/v1/library/history",
		Summary:     "Record play event",
		Description: "Records a play event in the viewing history. Replaying a video refreshes its timestamp.",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRecordPlay)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteEntries",
		Method:      http.MethodDelete,
		Path:        "/api/v1/library/{collection}",
		Summary:     "Delete entries",
		Description: "Deletes a batch of entries from one collection. Each id settles independently; the response reports which were removed and which were not.",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteEntries)
}

// === DTOs ===

// ListMyListInput contains parameters for listing saved videos.
type ListMyListInput struct {
	Authorization string `header:"Authorization"`
}

// MyListResponse contains the user's saved videos.
type MyListResponse struct {
	Videos []VideoResponse `json:"videos" doc:"Saved videos"`
}

// MyListOutput wraps the my-list response for Huma.
type MyListOutput struct {
	Body MyListResponse
}

// SaveVideoRequest is the request body for saving a video or recording
// a play event.
type SaveVideoRequest struct {
	ID          string `json:"id,omitempty" validate:"omitempty,max=200" doc:"Catalog video ID"`
	Title       string `json:"title" validate:"required,max=500" doc:"Video title"`
	Summary     string `json:"summary,omitempty" validate:"omitempty,max=2000" doc:"Short summary"`
	Description string `json:"description,omitempty" validate:"omitempty,max=10000" doc:"Long description"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=100" doc:"Category label"`
	DriveLink   string `json:"driveLink,omitempty" validate:"omitempty,max=2000" doc:"Source drive link"`
	Thumbnail   string `json:"thumbnail,omitempty" validate:"omitempty,max=2000" doc:"Explicit thumbnail URL"`
}

// SaveVideoInput wraps the save-video request for Huma.
type SaveVideoInput struct {
	Authorization string `header:"Authorization"`
	Body          SaveVideoRequest
}

// HistoryEntryResponse contains one viewing-history entry.
type HistoryEntryResponse struct {
	VideoResponse
	ViewedAt time.Time `json:"viewedAt" doc:"Last play time"`
}

// HistoryResponse contains the user's viewing history.
type HistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries" doc:"History entries, most recent first"`
}

// HistoryOutput wraps the history response for Huma.
type HistoryOutput struct {
	Body HistoryResponse
}

// DeleteEntriesRequest is the request body for bulk deletion.
type DeleteEntriesRequest struct {
	IDs []string `json:"ids" minItems:"1" doc:"Entry identities to delete"`
}

// DeleteEntriesInput wraps the bulk deletion request for Huma.
type DeleteEntriesInput struct {
	Authorization string `header:"Authorization"`
	Collection    string `path:"collection" doc:"Collection name: mylist or history"`
	Body          DeleteEntriesRequest
}

// DeleteEntriesResponse reports how the deletion settled per item.
type DeleteEntriesResponse struct {
	Deleted []string `json:"deleted" doc:"Identities removed"`
	Failed  []string `json:"failed" doc:"Identities left intact"`
}

// DeleteEntriesOutput wraps the deletion response for Huma.
type DeleteEntriesOutput struct {
	Body DeleteEntriesResponse
}

// === Handlers ===

func (s *Server) handleListMyList(ctx context.Context, input *ListMyListInput) (*MyListOutput, error) {
	session, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	videos, err := s.services.Library.FetchMyList(ctx, session)
	if err != nil {
		return nil, err
	}

	return &MyListOutput{Body: MyListResponse{Videos: mapVideos(videos)}}, nil
}

func (s *Server) handleAddToMyList(ctx context.Context, input *SaveVideoInput) (*MessageOutput, error) {
	session, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	video, err := videoFromRequest(input.Body)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.AddToMyList(ctx, session, video); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Saved to My List"}}, nil
}

func (s *Server) handleListHistory(ctx context.Context, input *ListMyListInput) (*HistoryOutput, error) {
	session, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Library.FetchHistory(ctx, session)
	if err != nil {
		return nil, err
	}

	resp := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = HistoryEntryResponse{
			VideoResponse: mapVideo(e.Video),
			ViewedAt:      e.ViewedAt,
		}
	}

	return &HistoryOutput{Body: HistoryResponse{Entries: resp}}, nil
}

func (s *Server) handleRecordPlay(ctx context.Context, input *SaveVideoInput) (*MessageOutput, error) {
	session, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	video, err := videoFromRequest(input.Body)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.AddToHistory(ctx, session, video); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Play recorded"}}, nil
}

func (s *Server) handleDeleteEntries(ctx context.Context, input *DeleteEntriesInput) (*DeleteEntriesOutput, error) {
	session, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Library.DeleteEntries(ctx, session, input.Collection, input.Body.IDs)
	if err != nil {
		return nil, err
	}

	return &DeleteEntriesOutput{
		Body: DeleteEntriesResponse{
			Deleted: result.Deleted,
			Failed:  result.Failed,
		},
	}, nil
}

// === Helpers ===

// videoFromRequest converts a save-video body to a domain video. An
// entry with neither an id nor a driveLink has no stable identity and
// is rejected.
func videoFromRequest(req SaveVideoRequest) (domain.Video, error) {
	if req.ID == "" && req.DriveLink == "" {
		return domain.Video{}, domainerrors.Validation("video requires an id or a driveLink")
	}
	return domain.Video{
		ID:          req.ID,
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		Category:    req.Category,
		DriveLink:   req.DriveLink,
		Thumbnail:   req.Thumbnail,
	}, nil
}
