package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/httpx"
	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/policy"
	"github.com/diewo77/faculty-records/internal/services"
	"github.com/diewo77/faculty-records/internal/storage"
)

// collection binds a URL segment to a record type: a factory for decoding
// and deleting, and a typed list query.
type collection struct {
	make func() models.Record
	list func(ctx context.Context, gdb *gorm.DB, facultyID uint) (any, error)
}

func listOf[T any](ctx context.Context, gdb *gorm.DB, facultyID uint) (any, error) {
	return services.ListRecords[T](ctx, gdb, facultyID)
}

var collections = map[string]collection{
	"work-experiences":    {func() models.Record { return &models.WorkExperience{} }, listOf[models.WorkExperience]},
	"teaching-activities": {func() models.Record { return &models.TeachingActivity{} }, listOf[models.TeachingActivity]},
	"publications":        {func() models.Record { return &models.ResearchPublication{} }, listOf[models.ResearchPublication]},
	"workshops":           {func() models.Record { return &models.WorkshopSeminar{} }, listOf[models.WorkshopSeminar]},
	"fdp-mdp":             {func() models.Record { return &models.MDPFDP{} }, listOf[models.MDPFDP]},
	"awards":              {func() models.Record { return &models.HonoursAward{} }, listOf[models.HonoursAward]},
	"projects":            {func() models.Record { return &models.ResearchConsultancy{} }, listOf[models.ResearchConsultancy]},
	"activities":          {func() models.Record { return &models.Activity{} }, listOf[models.Activity]},
}

// RecordHandler serves the per-faculty record collections through one set of
// routes keyed by the collection segment.
type RecordHandler struct {
	Records  *services.RecordService
	Profiles *services.ProfileService
	Actors   policy.ActorResolver
}

func NewRecordHandler(records *services.RecordService, profiles *services.ProfileService, actors policy.ActorResolver) *RecordHandler {
	return &RecordHandler{Records: records, Profiles: profiles, Actors: actors}
}

func (h *RecordHandler) lookup(w http.ResponseWriter, r *http.Request) (collection, bool) {
	c, ok := collections[r.PathValue("collection")]
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "unknown_collection", nil)
		return collection{}, false
	}
	return c, true
}

// List returns the collection rows. View access is checked against the
// parent profile.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if _, err := h.Profiles.Get(r.Context(), actor, id); err != nil {
		writeServiceError(w, err)
		return
	}
	rows, err := c.list(r.Context(), h.Records.DB, id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Add inserts a row. Plain JSON bodies carry just the record; multipart
// bodies carry a "record" JSON part plus an optional "attachment" file.
func (h *RecordHandler) Add(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	rec := c.make()

	var up *storage.Upload
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_multipart", nil)
			return
		}
		raw := r.FormValue("record")
		if raw == "" {
			httpx.JSONError(w, http.StatusBadRequest, "missing_record", nil)
			return
		}
		if err := json.Unmarshal([]byte(raw), rec); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if file, header, err := r.FormFile("attachment"); err == nil {
			defer file.Close()
			up = &storage.Upload{Name: header.Filename, Content: file}
		}
	} else {
		if err := httpx.Decode(r, rec); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	}

	if err := h.Records.Add(r.Context(), actor, id, rec, up); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

// Delete removes a row and its attachment.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	recordID, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.Records.Delete(r.Context(), actor, id, c.make(), recordID); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
