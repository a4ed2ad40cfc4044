package storage

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"borg-perception/internal/domain"
)

// maxPayload - верхняя граница одного входа; защищает от порченых файлов.
const maxPayload = 16 << 20

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	session, err := readBinary(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return session, nil
}

func readBinary(r io.Reader) (*domain.ReplaySession, error) {
	// 1. Читаем заголовок целиком
	var header SessionFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrBadMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version1)
	}
	if header.InputCount < 0 || header.ConfigLen > maxPayload {
		return nil, fmt.Errorf("corrupted header")
	}

	session := &domain.ReplaySession{
		ID:        header.ID,
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Inputs:    make([]domain.ReplayInput, header.InputCount),
	}

	// 2. Читаем конфигурацию
	if header.ConfigLen > 0 {
		session.Config = make([]byte, header.ConfigLen)
		if _, err := io.ReadFull(r, session.Config); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 3. Читаем входы
	for i := 0; i < int(header.InputCount); i++ {
		var ih InputHeader
		if err := binary.Read(r, binary.LittleEndian, &ih); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if ih.PayloadLen > maxPayload {
			return nil, fmt.Errorf("input %d: payload of %d bytes", i, ih.PayloadLen)
		}

		in := domain.ReplayInput{
			Tick: int(ih.Tick),
			Kind: domain.InputKind(ih.Kind),
		}
		if ih.PayloadLen > 0 {
			in.Payload = make([]byte, ih.PayloadLen)
			if _, err := io.ReadFull(r, in.Payload); err != nil {
				return nil, fmt.Errorf("input %d: %w", i, err)
			}
		} else {
			in.Payload = json.RawMessage{}
		}

		session.Inputs[i] = in
	}

	return session, nil
}
