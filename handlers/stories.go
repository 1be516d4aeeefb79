package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"colorstory/models"
)

type StoryFeedItem struct {
	ID           string        `json:"id"`
	PaletteName  string        `json:"paletteName"`
	Room         string        `json:"room"`
	Style        string        `json:"style"`
	HeroImageURL string        `json:"heroImageUrl,omitempty"`
	VariantOf    string        `json:"variantOf,omitempty"`
	Status       models.Status `json:"status"`
	Progress     float64       `json:"progress"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type FeedResponse struct {
	Stories []StoryFeedItem `json:"stories"`
	Total   int64           `json:"total"`
	HasMore bool            `json:"hasMore"`
}

// FeedHandler lists the caller's stories, newest first. Paging uses the
// limit and offset query parameters.
func (h *Handler) FeedHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	page, err := h.stories.ListStories(r.Context(), caller(r), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]StoryFeedItem, 0, len(page.Stories))
	for _, s := range page.Stories {
		items = append(items, StoryFeedItem{
			ID:           s.ID,
			PaletteName:  s.Palette.Name,
			Room:         s.Room,
			Style:        s.Style,
			HeroImageURL: s.HeroImageURL,
			VariantOf:    s.VariantOf,
			Status:       s.Status,
			Progress:     s.Progress,
			UpdatedAt:    s.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, FeedResponse{
		Stories: items,
		Total:   page.Total,
		HasMore: int64(page.Offset+len(items)) < page.Total,
	})
}

// StoryDetailRESTHandler handles RESTful paths like /stories/ID
func (h *Handler) StoryDetailRESTHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/stories/"), "/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Story ID is required", http.StatusBadRequest)
		return
	}

	story, err := h.stories.GetStory(r.Context(), caller(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}
