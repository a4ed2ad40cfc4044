package engine

import (
	"fmt"
	"math"
	"os"
	"time"

	"borg-perception/internal/domain"
	"borg-perception/internal/messages"
	"borg-perception/internal/tracking"

	"gopkg.in/yaml.v3"
)

// Config хранит параметры запуска движка. Числа по умолчанию -
// исторические значения настройки, менять их стоит только целиком
// и с проверкой на записях сессий.
type Config struct {
	// Seed - зерно генератора случайного вытеснения из таблиц.
	Seed int64 `yaml:"seed" json:"seed"`

	ExpiryTicks         int `yaml:"expiry_ticks" json:"expiryTicks"`
	ImpairedExpiryTicks int `yaml:"impaired_expiry_ticks" json:"impairedExpiryTicks"`
	KillTableSize       int `yaml:"kill_table_size" json:"killTableSize"`
	TakeTableSize       int `yaml:"take_table_size" json:"takeTableSize"`
	MessageQueueSize    int `yaml:"message_queue_size" json:"messageQueueSize"`
	MessageBufferBytes  int `yaml:"message_buffer_bytes" json:"messageBufferBytes"`
	SightingCap         int `yaml:"sighting_cap" json:"sightingCap"`
	FearDecayInterval   int `yaml:"fear_decay_interval" json:"fearDecayInterval"`
	FearDecayAmount     int `yaml:"fear_decay_amount" json:"fearDecayAmount"`
	MaxSight            int `yaml:"max_sight" json:"maxSight"`
	MaxLightRadius      int `yaml:"max_light_radius" json:"maxLightRadius"`

	MoveMatchDistances []int `yaml:"move_match_distances" json:"moveMatchDistances"`
	FlickerDistance    int   `yaml:"flicker_distance" json:"flickerDistance"`

	// Размеры подземелья хоста; должны совпасть с размерами карты движка.
	DungeonWidth  int `yaml:"dungeon_width" json:"dungeonWidth"`
	DungeonHeight int `yaml:"dungeon_height" json:"dungeonHeight"`

	// SpellFear - страх от заклинаний монстров, которых не нашли.
	SpellFear        map[string]int `yaml:"spell_fear" json:"spellFear,omitempty"`
	UnknownSpellFear int            `yaml:"unknown_spell_fear" json:"unknownSpellFear"`

	// JournalSize - сколько разобранных сообщений хранить для снимков.
	JournalSize int `yaml:"journal_size" json:"journalSize"`
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	tc := tracking.DefaultConfig()
	mc := messages.DefaultConfig()
	return Config{
		Seed:                time.Now().UnixNano(),
		ExpiryTicks:         tc.ExpiryTicks,
		ImpairedExpiryTicks: tc.ImpairedExpiryTicks,
		KillTableSize:       tc.KillTableSize,
		TakeTableSize:       tc.TakeTableSize,
		MessageQueueSize:    256,
		MessageBufferBytes:  4096,
		SightingCap:         9000,
		FearDecayInterval:   10,
		FearDecayAmount:     1,
		MaxSight:            domain.MaxSight,
		MaxLightRadius:      domain.MaxLightRadius,
		MoveMatchDistances:  tc.MoveMatchDistances,
		FlickerDistance:     tc.FlickerDistance,
		DungeonWidth:        domain.DungeonWidth,
		DungeonHeight:       domain.DungeonHeight,
		SpellFear:           mc.SpellFear,
		UnknownSpellFear:    mc.UnknownSpellFear,
		JournalSize:         100,
	}
}

// LoadConfig читает YAML поверх значений по умолчанию. Поля, которых
// нет в файле, остаются по умолчанию; таблица заклинаний дополняется.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	defaults := cfg.SpellFear
	cfg.SpellFear = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	for name, v := range cfg.SpellFear {
		defaults[name] = v
	}
	cfg.SpellFear = defaults
	return cfg, cfg.Validate()
}

// Validate проверяет конфигурацию один раз при старте. Несовпадение
// размеров подземелья - единственная фатальная ошибка движка.
func (c Config) Validate() error {
	if c.DungeonWidth != domain.DungeonWidth || c.DungeonHeight != domain.DungeonHeight {
		return fmt.Errorf("%w: host %dx%d, engine %dx%d", ErrDimensionMismatch,
			c.DungeonWidth, c.DungeonHeight, domain.DungeonWidth, domain.DungeonHeight)
	}
	switch {
	case c.KillTableSize < 2 || c.TakeTableSize < 2:
		return fmt.Errorf("entity tables need at least one usable row")
	case c.KillTableSize > math.MaxInt16 || c.TakeTableSize > math.MaxInt16:
		// Ссылки клеток на строки таблиц - int16.
		return fmt.Errorf("entity tables are limited to %d rows", math.MaxInt16)
	case c.MessageQueueSize < 1 || c.MessageBufferBytes < 1:
		return fmt.Errorf("message queue is empty")
	case c.SightingCap < 1:
		return fmt.Errorf("sighting cap must be positive")
	case c.FearDecayInterval < 1:
		return fmt.Errorf("fear decay interval must be positive")
	case c.ExpiryTicks < 1 || c.ImpairedExpiryTicks < 1:
		return fmt.Errorf("expiry windows must be positive")
	case len(c.MoveMatchDistances) == 0:
		return fmt.Errorf("move match distances are empty")
	case c.MaxSight < 1 || c.MaxSight > domain.MaxSight:
		return fmt.Errorf("max sight must be in 1..%d", domain.MaxSight)
	case c.MaxLightRadius < 0 || c.MaxLightRadius > domain.MaxLightRadius:
		return fmt.Errorf("max light radius must be in 0..%d", domain.MaxLightRadius)
	}
	return nil
}

func (c Config) trackerConfig() tracking.Config {
	return tracking.Config{
		KillTableSize:       c.KillTableSize,
		TakeTableSize:       c.TakeTableSize,
		ExpiryTicks:         c.ExpiryTicks,
		ImpairedExpiryTicks: c.ImpairedExpiryTicks,
		MoveMatchDistances:  c.MoveMatchDistances,
		FlickerDistance:     c.FlickerDistance,
	}
}

func (c Config) reactorConfig() messages.Config {
	return messages.Config{SpellFear: c.SpellFear, UnknownSpellFear: c.UnknownSpellFear}
}
