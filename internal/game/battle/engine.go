package battle

import "go.uber.org/zap"

// Engine resolves battles with a fixed roller and reports each outcome to a logger.
// It holds no per-battle state and is safe for concurrent use when its Roller is.
type Engine struct {
	roller Roller
	logger *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: roller must be non-nil. A nil logger disables logging.
func NewEngine(roller Roller, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{roller: roller, logger: logger}
}

// Fight resolves a battle between player and opponent.
func (e *Engine) Fight(player, opponent Snapshot) Result {
	r := Resolve(player, opponent, e.roller)
	e.logger.Info("battle resolved",
		zap.String("player", player.Name),
		zap.String("opponent", opponent.Name),
		zap.Stringer("outcome", r.Outcome),
		zap.Int("turns", len(r.Turns)),
		zap.Int("player_hp", r.PlayerHP),
		zap.Int("opponent_hp", r.OpponentHP),
		zap.Bool("player_first", r.PlayerFirst),
	)
	return r
}
