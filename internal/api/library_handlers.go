package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/readtrailapp/readtrail-server/internal/domain"
	"github.com/readtrailapp/readtrail-server/internal/http/response"
	"github.com/readtrailapp/readtrail-server/internal/service"
	"github.com/readtrailapp/readtrail-server/internal/store"
)

// handleAddBook adds a catalog book to the caller's library.
func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req service.AddBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.libraryService.AddBook(r.Context(), getUserID(r), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.CreatedMessage(w, "Book added to library", entry, s.logger)
}

// handleListLibrary lists library entries with filtering, sorting and
// pagination taken from query parameters.
func (s *Server) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := store.EntryQuery{
		Shelf:     domain.Shelf(params.Get("shelf")),
		Search:    params.Get("search"),
		SortBy:    params.Get("sort_by"),
		SortOrder: params.Get("sort_order"),
	}
	if raw := params.Get("page"); raw != "" {
		q.Page, _ = strconv.Atoi(raw)
	}
	if raw := params.Get("limit"); raw != "" {
		q.Limit, _ = strconv.Atoi(raw)
	}

	page, err := s.libraryService.List(r.Context(), getUserID(r), q)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleGetEntry returns a single library entry with its book.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.libraryService.GetEntry(r.Context(), getUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}

// handleUpdateEntry edits shelf, rating, review, tags or custom fields.
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateEntryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.libraryService.UpdateEntry(r.Context(), getUserID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "Entry updated", entry, s.logger)
}

// handleRemoveEntry deletes a library entry. The book record stays.
func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.libraryService.RemoveEntry(r.Context(), getUserID(r), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleUpdateProgress sets the current page and updates the streak.
func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProgressRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.libraryService.UpdateProgress(r.Context(), getUserID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "Progress updated", entry, s.logger)
}

// handleAddNote attaches a note to a library entry.
func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var req service.NoteRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	note, err := s.libraryService.AddNote(r.Context(), getUserID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, note, s.logger)
}

// handleUpdateNote edits an existing note.
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req service.NoteRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	note, err := s.libraryService.UpdateNote(
		r.Context(), getUserID(r), chi.URLParam(r, "id"), chi.URLParam(r, "noteID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, note, s.logger)
}

// handleRemoveNote deletes a note from a library entry.
func (s *Server) handleRemoveNote(w http.ResponseWriter, r *http.Request) {
	err := s.libraryService.RemoveNote(
		r.Context(), getUserID(r), chi.URLParam(r, "id"), chi.URLParam(r, "noteID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleAddQuote saves a quote from a book.
func (s *Server) handleAddQuote(w http.ResponseWriter, r *http.Request) {
	var req service.QuoteRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	quote, err := s.libraryService.AddQuote(r.Context(), getUserID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, quote, s.logger)
}

// handleSearchQuotes searches saved quotes across the whole library.
func (s *Server) handleSearchQuotes(w http.ResponseWriter, r *http.Request) {
	matches, err := s.libraryService.SearchQuotes(r.Context(), getUserID(r), r.URL.Query().Get("q"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, matches, s.logger)
}

// handleRecordSession logs a reading sitting against an entry.
func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	var req service.SessionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.libraryService.RecordSession(r.Context(), getUserID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.CreatedMessage(w, "Session recorded", entry, s.logger)
}
