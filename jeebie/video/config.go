package video

import "log/slog"

// Model selects which hardware generation the pipeline emulates.
type Model uint8

const (
	// ModelDMG is the original monochrome handheld.
	ModelDMG Model = iota
	// ModelCGB is the color successor: two VRAM banks, palette RAM and
	// OAM-index sprite priority.
	ModelCGB
)

func (m Model) String() string {
	switch m {
	case ModelDMG:
		return "dmg"
	case ModelCGB:
		return "cgb"
	default:
		return "unknown"
	}
}

// DefaultSpritePenalty is the approximate number of dots each selected sprite
// adds to the transfer phase. Real hardware varies between 6 and 11 depending
// on the sprite's X position relative to the background tile grid.
const DefaultSpritePenalty = 6

// Config is fixed at construction time for the whole pipeline.
type Config struct {
	Model Model
	// SpritePenalty is used by OamSearch to size the transfer phase.
	SpritePenalty int
	// Logger receives debug events. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration for the given hardware model.
func DefaultConfig(model Model) Config {
	return Config{
		Model:         model,
		SpritePenalty: DefaultSpritePenalty,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c Config) isColor() bool {
	return c.Model == ModelCGB
}
