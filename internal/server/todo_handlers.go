package server

import (
	"net/http"

	"github.com/Tomlord1122/todo-api/internal/service"
)

type okResponse struct {
	OK bool `json:"ok"`
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := s.todos.CreateTodo(r.Context(), currentUser(r), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to create todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todos.ListTodos(r.Context(), currentUser(r))
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to retrieve todos")
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "todo")
	if !ok {
		return
	}

	var (
		todo *service.TodoResponse
		err  error
	)
	if s.cfg.StrictTodoRead {
		todo, err = s.todos.GetOwnedTodo(r.Context(), currentUser(r), id)
	} else {
		todo, err = s.todos.GetTodoByID(r.Context(), id)
	}
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to retrieve todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "todo")
	if !ok {
		return
	}

	var req service.UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := s.todos.UpdateTodo(r.Context(), currentUser(r), id, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "Failed to update todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "todo")
	if !ok {
		return
	}

	if err := s.todos.DeleteTodo(r.Context(), currentUser(r), id); err != nil {
		s.respondWithServiceError(w, r, err, "Failed to delete todo")
		return
	}

	respondWithJSON(w, http.StatusOK, okResponse{OK: true})
}
