package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"borg-perception/internal/domain"
)

const (
	MagicHeader string = `BPRS` // 4 байта
	Version1    uint32 = 1
)

var (
	ErrBadMagic           = errors.New("not a session recording")
	ErrUnsupportedVersion = errors.New("unsupported recording version")
)

// SessionFileHeader - это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type SessionFileHeader struct {
	Magic      [4]byte  // 4 байта
	Version    uint32   // 4 байта
	ID         [16]byte // uuid сессии
	Seed       int64    // 8 байт
	Timestamp  int64    // 8 байт
	ConfigLen  uint32   // 4 байта, JSON конфигурации движка
	InputCount int32    // 4 байта
}

// InputHeader - заголовок каждой записи входа.
type InputHeader struct {
	Tick       int32  // 4
	Kind       uint8  // 1
	_          [3]byte
	PayloadLen uint32 // 4, кадр целиком может быть больше 64К
}

type ReplayService struct {
	SaveDir string
}

func NewReplayService(dir string) *ReplayService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &ReplayService{SaveDir: dir}
}

// Save пишет запись в SaveDir и возвращает путь к файлу.
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("session_%s_%d.bprs", session.ID, session.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := writeBinary(bw, session); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func writeBinary(w io.Writer, s *domain.ReplaySession) error {
	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := SessionFileHeader{
		Version:    Version1,
		ID:         s.ID,
		Seed:       s.Seed,
		Timestamp:  s.Timestamp,
		ConfigLen:  uint32(len(s.Config)),
		InputCount: int32(len(s.Inputs)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if len(s.Config) > 0 {
		if _, err := w.Write(s.Config); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	// 2. Пишем входы
	for i, in := range s.Inputs {
		if in.Kind == domain.InputUnknown {
			return fmt.Errorf("input %d has unknown kind", i)
		}

		inHeader := InputHeader{
			Tick:       int32(in.Tick),
			Kind:       uint8(in.Kind),
			PayloadLen: uint32(len(in.Payload)),
		}
		if err := binary.Write(w, binary.LittleEndian, &inHeader); err != nil {
			return err
		}
		if len(in.Payload) > 0 {
			if _, err := w.Write(in.Payload); err != nil {
				return err
			}
		}
	}

	return nil
}
