package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"borg-perception/internal/core/types"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrEmptyCatalog - в файле нет ни одной расы.
var ErrEmptyCatalog = errors.New("catalog has no races")

type raceFile struct {
	Name   string   `yaml:"name"`
	Plural string   `yaml:"plural"`
	Char   string   `yaml:"char"`
	Attr   string   `yaml:"attr"`
	Level  int      `yaml:"level"`
	Speed  int      `yaml:"speed"`
	HP     int      `yaml:"hp"`
	Power  int      `yaml:"power"`
	Flags  []string `yaml:"flags"`
	Spells []string `yaml:"spells"`
}

type kindFile struct {
	Name     string `yaml:"name"`
	Char     string `yaml:"char"`
	Attr     string `yaml:"attr"`
	TVal     int    `yaml:"tval"`
	Cost     int    `yaml:"cost"`
	Gold     bool   `yaml:"gold"`
	Flavored bool   `yaml:"flavored"`
	Aware    *bool  `yaml:"aware"`
}

type catalogFile struct {
	Races []raceFile `yaml:"races"`
	Kinds []kindFile `yaml:"kinds"`
}

// Default возвращает встроенный каталог.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is broken: %v", err))
	}
	return c
}

// LoadFile читает каталог из YAML-файла.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load читает каталог из потока.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse разбирает YAML каталога. Если расы "player ghost" нет, она
// добавляется в конец.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Races) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := newCatalog()
	for i, rf := range file.Races {
		r, err := rf.toRace()
		if err != nil {
			return nil, fmt.Errorf("race #%d %q: %w", i, rf.Name, err)
		}
		c.addRace(r)
	}
	for i, kf := range file.Kinds {
		k, err := kf.toKind()
		if err != nil {
			return nil, fmt.Errorf("kind #%d %q: %w", i, kf.Name, err)
		}
		c.addKind(k)
	}
	if c.ghost == 0 {
		c.addRace(Race{
			Name:  GhostName,
			Char:  'G',
			Attr:  types.AttrWhite,
			Level: 1,
			Speed: 120,
			Power: 50,
			Flags: RaceUnique | RacePassWall | RaceInvisible,
		})
	}
	return c, nil
}

func parseChar(s string) (byte, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("char must be a single byte, got %q", s)
	}
	return s[0], nil
}

func parseAttr(s string) (types.Attr, error) {
	if s == "" {
		return types.AttrWhite, nil
	}
	a, ok := types.ParseAttr(s)
	if !ok {
		return 0, fmt.Errorf("unknown attr %q", s)
	}
	return a, nil
}

func (rf raceFile) toRace() (Race, error) {
	ch, err := parseChar(rf.Char)
	if err != nil {
		return Race{}, err
	}
	attr, err := parseAttr(rf.Attr)
	if err != nil {
		return Race{}, err
	}
	flags, err := ParseRaceFlags(rf.Flags)
	if err != nil {
		return Race{}, err
	}
	speed := rf.Speed
	if speed == 0 {
		speed = 110
	}
	return Race{
		Name:   rf.Name,
		Plural: rf.Plural,
		Char:   ch,
		Attr:   attr,
		Level:  rf.Level,
		Speed:  speed,
		HP:     rf.HP,
		Power:  rf.Power,
		Flags:  flags,
		Spells: rf.Spells,
	}, nil
}

func (kf kindFile) toKind() (Kind, error) {
	ch, err := parseChar(kf.Char)
	if err != nil {
		return Kind{}, err
	}
	attr, err := parseAttr(kf.Attr)
	if err != nil {
		return Kind{}, err
	}
	aware := !kf.Flavored
	if kf.Aware != nil {
		aware = *kf.Aware
	}
	return Kind{
		Name:     kf.Name,
		Char:     ch,
		Attr:     attr,
		TVal:     kf.TVal,
		Cost:     kf.Cost,
		Gold:     kf.Gold,
		Flavored: kf.Flavored,
		Aware:    aware,
	}, nil
}
