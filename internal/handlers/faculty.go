package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/faculty-records/internal/httpx"
	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/policy"
	"github.com/diewo77/faculty-records/internal/services"
	"github.com/diewo77/faculty-records/internal/storage"
)

// maxUploadBytes caps multipart bodies (profile documents, record proofs).
const maxUploadBytes = 10 << 20

type FacultyHandler struct {
	Profiles *services.ProfileService
	Actors   policy.ActorResolver
}

func NewFacultyHandler(profiles *services.ProfileService, actors policy.ActorResolver) *FacultyHandler {
	return &FacultyHandler{Profiles: profiles, Actors: actors}
}

func (h *FacultyHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return
	}
	var in services.CreateProfileInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.Validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	f, err := h.Profiles.Create(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, f)
}

func (h *FacultyHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f, err := h.Profiles.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

func (h *FacultyHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in services.UpdateProfileInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.Validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	f, err := h.Profiles.Update(r.Context(), actor, id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

func (h *FacultyHandler) UpsertDetails(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in detailsInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	d, err := h.Profiles.UpsertDetails(r.Context(), actor, id, in.toModel())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *FacultyHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Profiles.Approve)
}

func (h *FacultyHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Profiles.Freeze)
}

func (h *FacultyHandler) Unfreeze(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Profiles.Unfreeze)
}

func (h *FacultyHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, policy.Actor, uint) (*models.Faculty, error)) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f, err := op(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

// UploadAttachment replaces one of the profile document slots from a
// multipart form with a single "file" part.
func (h *FacultyHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	slot := r.PathValue("slot")
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_multipart", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "missing_file", nil)
		return
	}
	defer file.Close()

	att, err := h.Profiles.ReplaceAttachment(r.Context(), actor, id, slot, storage.Upload{Name: header.Filename, Content: file})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, att)
}

// detailsInput mirrors the extended-details fields accepted over the wire.
type detailsInput struct {
	Position              string `json:"position"`
	FatherName            string `json:"father_name"`
	FatherOccupation      string `json:"father_occupation"`
	MotherName            string `json:"mother_name"`
	MotherOccupation      string `json:"mother_occupation"`
	MaritalStatus         string `json:"marital_status"`
	SpouseName            string `json:"spouse_name"`
	SpouseOccupation      string `json:"spouse_occupation"`
	Nationality           string `json:"nationality"`
	Religion              string `json:"religion"`
	Category              string `json:"category"`
	AadharNo              string `json:"aadhar_no"`
	PanNo                 string `json:"pan_no"`
	ContactNo2            string `json:"contact_no2"`
	BloodGroup            string `json:"blood_group"`
	PermanentAddress      string `json:"permanent_address"`
	CorrespondenceAddress string `json:"correspondence_address"`
	ScopusAuthorID        string `json:"scopus_author_id"`
	OrcidID               string `json:"orcid_id"`
	GoogleScholarLink     string `json:"google_scholar_link"`
	AicteID               string `json:"aicte_id"`
}

func (in detailsInput) toModel() models.FacultyDetails {
	return models.FacultyDetails{
		Position:              in.Position,
		FatherName:            in.FatherName,
		FatherOccupation:      in.FatherOccupation,
		MotherName:            in.MotherName,
		MotherOccupation:      in.MotherOccupation,
		MaritalStatus:         in.MaritalStatus,
		SpouseName:            in.SpouseName,
		SpouseOccupation:      in.SpouseOccupation,
		Nationality:           in.Nationality,
		Religion:              in.Religion,
		Category:              in.Category,
		AadharNo:              in.AadharNo,
		PanNo:                 in.PanNo,
		ContactNo2:            in.ContactNo2,
		BloodGroup:            in.BloodGroup,
		PermanentAddress:      in.PermanentAddress,
		CorrespondenceAddress: in.CorrespondenceAddress,
		ScopusAuthorID:        in.ScopusAuthorID,
		OrcidID:               in.OrcidID,
		GoogleScholarLink:     in.GoogleScholarLink,
		AicteID:               in.AicteID,
	}
}
