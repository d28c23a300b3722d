package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hobbyte/internal/service"
)

// GameHandler serves the game endpoints of the authenticated player
type GameHandler struct {
	gameService *service.GameService
	logger      *zap.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      logger,
	}
}

type createGameRequest struct {
	Name    string `json:"nombre"`
	Rows    *int   `json:"filas"`
	Columns *int   `json:"columnas"`
}

// CreateGame starts a new game for the current user
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	rows, columns := service.DefaultRows, service.DefaultColumns
	if req.Rows != nil {
		rows = *req.Rows
	}
	if req.Columns != nil {
		columns = *req.Columns
	}

	user := GetUserFromContext(r.Context())
	created, err := h.gameService.CreateGame(user.ID, req.Name, rows, columns)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, createdGameResponse{
		GameID:  created.Game.ID,
		BoardID: created.Board.ID,
		RoundID: created.Round.ID,
	})
}

// ListGames lists the current user's games
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.ListGames(GetUserFromContext(r.Context()).ID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	out := make([]gameSummaryResponse, 0, len(games))
	for i := range games {
		g := &games[i]
		out = append(out, gameSummaryResponse{
			gameResponse:  newGameResponse(&g.Game),
			boardResponse: boardResponse{ID: g.BoardID, Rows: g.Rows, Columns: g.Columns},
			Revealed:      g.Revealed,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// GetGame returns the full snapshot of a game
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := h.gameID(w, r)
	if !ok {
		return
	}

	view, err := h.gameService.GetGame(GetUserFromContext(r.Context()).ID, gameID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, newGameViewResponse(view))
}

// Attempts returns the attempt log of a game
func (h *GameHandler) Attempts(w http.ResponseWriter, r *http.Request) {
	gameID, ok := h.gameID(w, r)
	if !ok {
		return
	}

	attempts, err := h.gameService.Attempts(GetUserFromContext(r.Context()).ID, gameID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	out := make([]attemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, attemptResponse{
			ID:             a.ID,
			RoundID:        a.RoundID,
			CellID:         a.CellID,
			HeroID:         a.HeroID,
			Outcome:        string(a.Outcome),
			Probability:    a.Probability,
			RequiredEffort: a.RequiredEffort,
			PowerBefore:    a.PowerBefore,
			PowerAfter:     a.PowerAfter,
			CreatedAt:      a.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

type revealRequest struct {
	X *int `json:"cordX"`
	Y *int `json:"cordY"`
}

// Reveal resolves one cell of a game
func (h *GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	gameID, ok := h.gameID(w, r)
	if !ok {
		return
	}

	var req revealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	// Missing coordinates fall outside every board
	x, y := -1, -1
	if req.X != nil {
		x = *req.X
	}
	if req.Y != nil {
		y = *req.Y
	}

	result, err := h.gameService.Reveal(GetUserFromContext(r.Context()).ID, gameID, x, y)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, newRevealResponse(result))
}

// Surrender forfeits a game and returns the whole board
func (h *GameHandler) Surrender(w http.ResponseWriter, r *http.Request) {
	gameID, ok := h.gameID(w, r)
	if !ok {
		return
	}

	result, err := h.gameService.Surrender(GetUserFromContext(r.Context()).ID, gameID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, surrenderResponse{
		Status: string(result.Status),
		Cells:  newCellResponses(result.Cells, true, false),
		Heroes: newHeroResponses(result.Heroes, false),
	})
}

func (h *GameHandler) gameID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondWithError(w, h.logger, http.StatusNotFound, service.ErrGameNotFound.Error(), "", nil)
		return 0, false
	}
	return id, true
}
