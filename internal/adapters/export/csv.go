// Package export renders a player's training history as a downloadable CSV.
package export

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/okian/toca/internal/domain/model"
)

// ContentType is the media type of WriteSessionsCSV output.
const ContentType = "text/csv; charset=utf-8"

const (
	dateLayout    = "Jan 2, 2006"
	instantLayout = "2006-01-02T15:04:05.000Z07:00"
)

var header = []string{ //nolint:gochecknoglobals // fixed column set
	"Date",
	"Trainer",
	"Score",
	"Goals",
	"Best Streak",
	"Avg Speed of Play",
	"Balls Played",
	"Exercises",
	"Start Time",
	"End Time",
}

var whitespace = regexp.MustCompile(`\s+`) //nolint:gochecknoglobals // compiled once

// WriteSessionsCSV writes one row per session, in the given order. The
// header is bare; every data cell is quoted. Dates are shown in loc and the
// start/end instants in UTC.
func WriteSessionsCSV(w io.Writer, sessions []model.TrainingSession, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(header, ",")); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range sessions {
		row := []string{
			s.StartTime.In(loc).Format(dateLayout),
			s.TrainerName,
			strconv.FormatFloat(s.Score, 'f', -1, 64),
			strconv.Itoa(s.NumberOfGoals),
			strconv.Itoa(s.BestStreak),
			strconv.FormatFloat(s.AvgSpeedOfPlay, 'f', 2, 64),
			strconv.Itoa(s.NumberOfBalls),
			strconv.Itoa(s.NumberOfExercises),
			s.StartTime.UTC().Format(instantLayout),
			s.EndTime.UTC().Format(instantLayout),
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write csv row %s: %w", s.ID, err)
		}
		if _, err := bw.WriteString(quoteRow(row)); err != nil {
			return fmt.Errorf("write csv row %s: %w", s.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportFilename names the download for a player: whitespace runs become
// dashes and the result is lower-cased.
func ExportFilename(playerName string) string {
	slug := strings.ToLower(whitespace.ReplaceAllString(strings.TrimSpace(playerName), "-"))
	if slug == "" {
		slug = "player"
	}
	return "toca-training-history-" + slug + ".csv"
}

func quoteRow(cells []string) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c, `"`, `""`))
		b.WriteByte('"')
	}
	return b.String()
}
