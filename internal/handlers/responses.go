package handlers

import (
	"time"

	"hobbyte/internal/models"
	"hobbyte/internal/service"
)

type okResponse struct {
	OK bool `json:"ok"`
}

type userResponse struct {
	ID        int64     `json:"idUsuario"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"creado_en"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

type loginResponse struct {
	OK        bool         `json:"ok"`
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expira"`
}

type createdUserResponse struct {
	ID       int64  `json:"idUsuario"`
	Password string `json:"password,omitempty"`
}

type statsResponse struct {
	Won  int `json:"ganadas"`
	Lost int `json:"perdidas"`
	Open int `json:"abiertas"`
}

type createdGameResponse struct {
	GameID  int64 `json:"idJuego"`
	BoardID int64 `json:"idTablero"`
	RoundID int64 `json:"idRonda"`
}

type gameResponse struct {
	ID        int64     `json:"idJuego"`
	Name      string    `json:"nombre"`
	Status    string    `json:"estado"`
	CreatedAt time.Time `json:"creado_en"`
}

type boardResponse struct {
	ID      int64 `json:"idTablero"`
	Rows    int   `json:"filas"`
	Columns int   `json:"columnas"`
}

type gameSummaryResponse struct {
	gameResponse
	boardResponse
	Revealed int `json:"destapadas"`
}

type heroResponse struct {
	ID       int64  `json:"idPersonaje,omitempty"`
	Name     string `json:"nombre"`
	Type     int    `json:"tipo"`
	MaxPower int    `json:"poder_max,omitempty"`
	Power    int    `json:"poder_actual"`
	Alive    bool   `json:"vivo"`
}

// cellResponse leaves Type and Effort nil for cells whose contents are hidden
type cellResponse struct {
	ID     int64  `json:"idCasilla,omitempty"`
	X      int    `json:"cordX"`
	Y      int    `json:"cordY"`
	Type   *int   `json:"tipo,omitempty"`
	Effort *int   `json:"esfuerzo,omitempty"`
	Status string `json:"estado"`
}

type gameViewResponse struct {
	Game   gameResponse   `json:"juego"`
	Board  boardResponse  `json:"tablero"`
	Heroes []heroResponse `json:"personajes"`
	Cells  []cellResponse `json:"casillas"`
}

type revealedCellResponse struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Type   int `json:"tipo"`
	Effort int `json:"esfuerzo"`
}

type moveResponse struct {
	Outcome     string               `json:"resultado"`
	Probability *int                 `json:"prob,omitempty"`
	PowerBefore int                  `json:"poder_antes"`
	PowerAfter  int                  `json:"poder_despues"`
	Cell        revealedCellResponse `json:"casilla"`
}

type stateResponse struct {
	Status      string `json:"estado"`
	Revealed    int    `json:"destapadas"`
	Total       int    `json:"total"`
	AliveHeroes int    `json:"heroes_vivos"`
	LossStreak  int    `json:"perdidas_consecutivas"`
}

type revealResponse struct {
	Move  moveResponse  `json:"movimiento"`
	State stateResponse `json:"estado"`
}

type surrenderResponse struct {
	Status string         `json:"estado"`
	Cells  []cellResponse `json:"casillas"`
	Heroes []heroResponse `json:"heroes"`
}

type attemptResponse struct {
	ID             int64     `json:"idIntento"`
	RoundID        int64     `json:"idRonda"`
	CellID         int64     `json:"idCasilla"`
	HeroID         int64     `json:"idPersonaje"`
	Outcome        string    `json:"resultado"`
	Probability    int       `json:"prob_aplicada"`
	RequiredEffort int       `json:"poder_requerido"`
	PowerBefore    int       `json:"poder_antes"`
	PowerAfter     int       `json:"poder_despues"`
	CreatedAt      time.Time `json:"creado_en"`
}

func newGameResponse(g *models.Game) gameResponse {
	return gameResponse{ID: g.ID, Name: g.Name, Status: string(g.Status), CreatedAt: g.CreatedAt}
}

func newHeroResponses(heroes []models.Hero, withIDs bool) []heroResponse {
	out := make([]heroResponse, 0, len(heroes))
	for _, h := range heroes {
		hr := heroResponse{Name: h.Name, Type: int(h.Type), Power: h.Power, Alive: h.Alive}
		if withIDs {
			hr.ID = h.ID
			hr.MaxPower = h.MaxPower
		}
		out = append(out, hr)
	}
	return out
}

// newCellResponses hides the type and effort of unrevealed cells unless reveal is set
func newCellResponses(cells []models.Cell, revealAll, withIDs bool) []cellResponse {
	out := make([]cellResponse, 0, len(cells))
	for _, c := range cells {
		cr := cellResponse{X: c.X, Y: c.Y, Status: string(c.Status)}
		if withIDs {
			cr.ID = c.ID
		}
		if revealAll || c.Revealed() {
			cellType, effort := int(c.Type), c.Effort
			cr.Type = &cellType
			cr.Effort = &effort
		}
		out = append(out, cr)
	}
	return out
}

func newGameViewResponse(v *service.GameView) gameViewResponse {
	return gameViewResponse{
		Game:   newGameResponse(v.Game),
		Board:  boardResponse{ID: v.Board.ID, Rows: v.Board.Rows, Columns: v.Board.Columns},
		Heroes: newHeroResponses(v.Heroes, true),
		Cells:  newCellResponses(v.Cells, !v.Game.Status.IsOpen(), true),
	}
}

func newRevealResponse(res *service.RevealResult) revealResponse {
	move := moveResponse{
		Outcome:     string(res.Resolution.Outcome),
		PowerBefore: res.Resolution.PowerBefore,
		PowerAfter:  res.Resolution.PowerAfter,
		Cell: revealedCellResponse{
			X:      res.Cell.X,
			Y:      res.Cell.Y,
			Type:   int(res.Cell.Type),
			Effort: res.Cell.Effort,
		},
	}
	if res.Resolution.Rolled() {
		prob := res.Resolution.Probability
		move.Probability = &prob
	}

	return revealResponse{
		Move: move,
		State: stateResponse{
			Status:      string(res.State.Status),
			Revealed:    res.State.Revealed,
			Total:       res.State.Total,
			AliveHeroes: res.State.AliveHeroes,
			LossStreak:  res.State.LossStreak,
		},
	}
}
