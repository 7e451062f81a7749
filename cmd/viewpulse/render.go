package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"

	"viewpulse/internal/ranking"
	"viewpulse/internal/report"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const titleWidth = 48

func shouldColorize(writer io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderSectionHeader(title string, colorize bool) string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		return ansiBlue + line + ansiReset
	}
	return line
}

func trendMarker(trend ranking.Trend, ok bool, colorize bool) string {
	if !ok {
		return "new"
	}
	symbol := trend.Symbol()
	if !colorize {
		return symbol
	}
	switch trend {
	case ranking.TrendRising:
		return ansiGreen + symbol + ansiReset
	case ranking.TrendFalling:
		return ansiRed + symbol + ansiReset
	default:
		return ansiYellow + symbol + ansiReset
	}
}

func formatCount(value int64) string {
	raw := strconv.FormatInt(value, 10)
	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")
	var b strings.Builder
	for i, r := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}

func formatDelta(delta *int64) string {
	if delta == nil {
		return "new"
	}
	if *delta > 0 {
		return "+" + formatCount(*delta)
	}
	return formatCount(*delta)
}

func formatOptional(value *int64) string {
	if value == nil {
		return "-"
	}
	return formatCount(*value)
}

func formatKind(isShort bool) string {
	return string(report.BucketFor(isShort))
}

func truncate(value string, width int) string {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) <= width {
		return value
	}
	runes := []rune(value)
	return string(runes[:width-1]) + "…"
}
