// Package version хранит сведения о сборке. Значения BuildXXX задаются
// линкером: -ldflags "-X borg-perception/internal/version.BuildDate=2026-01-05".
package version

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Name is reported by /version and in the startup log line.
const Name = "borg-perception"

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// Номер сборки - число дней от этой даты.
var buildEpoch = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

var errNoBuildDate = errors.New("BuildDate is empty")

// VersionInfo - сведения о сборке для /version.
type VersionInfo struct {
	Name       string `json:"name"`
	BuildID    int    `json:"buildId"`
	BuildDate  string `json:"buildDate,omitempty"`
	Commit     string `json:"commit,omitempty"`
	Branch     string `json:"branch,omitempty"`
	CI         string `json:"ci,omitempty"`
	Go         string `json:"go"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

// CalculateBuildID переводит BuildDate в номер сборки.
func CalculateBuildID() (int, error) {
	if BuildDate == "" {
		return 0, errNoBuildDate
	}
	day, err := time.ParseInLocation(time.DateOnly, BuildDate, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", BuildDate, err)
	}
	if day.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before %s", BuildDate, buildEpoch.Format(time.DateOnly))
	}
	// Обе даты в UTC, часы не страдают от перехода на летнее время.
	return int(day.Sub(buildEpoch).Hours() / 24), nil
}

// Info собирает сведения о сборке. Ошибка расчета номера не фатальна и
// попадает в поле Error.
func Info() VersionInfo {
	info := VersionInfo{
		Name:      Name,
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		Go:        runtime.Version(),
	}
	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	info.Calculated = true
	return info
}

// String - строка для журнала запуска.
func String() string {
	info := Info()
	if !info.Calculated {
		return fmt.Sprintf("Build unknown (%s)", info.Error)
	}
	return fmt.Sprintf("%s build %d (%s) commit[%s] branch[%s] ci[%s] %s",
		info.Name, info.BuildID, info.BuildDate,
		orDefault(info.Commit, "unknown"),
		orDefault(info.Branch, "unknown"),
		orDefault(info.CI, "local"),
		info.Go,
	)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
