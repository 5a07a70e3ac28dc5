package server

import (
	"net/http"

	"github.com/Tomlord1122/todo-api/internal/service"
)

type categoryDeletedResponse struct {
	OK         bool  `json:"ok"`
	MovedTodos int64 `json:"moved_todos"`
}

func (s *Server) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := s.categories.CreateCategory(r.Context(), currentUser(r), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to create category")
		return
	}

	respondWithJSON(w, http.StatusOK, category)
}

func (s *Server) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.ListCategories(r.Context(), currentUser(r))
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to retrieve categories")
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}

func (s *Server) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "category")
	if !ok {
		return
	}

	var req service.UpdateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := s.categories.UpdateCategory(r.Context(), currentUser(r), id, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to update category")
		return
	}

	respondWithJSON(w, http.StatusOK, category)
}

func (s *Server) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "category")
	if !ok {
		return
	}

	moved, err := s.categories.DeleteCategory(r.Context(), currentUser(r), id)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to delete category")
		return
	}

	respondWithJSON(w, http.StatusOK, categoryDeletedResponse{OK: true, MovedTodos: moved})
}
