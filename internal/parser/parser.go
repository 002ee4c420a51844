// Package parser converts raw WhatsApp chat exports into ordered message records.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"panion/internal/model"
)

// Exports prefix every message with "M/D/Y, H:MM[:SS] [AM/PM] - ". The first
// pattern captures a "sender: content" line; the second matches the same
// prefix without a sender and covers system notices (encryption banners,
// group subject changes). Order matters: a sender line also matches the
// system pattern.
var (
	messagePattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),?\s+(\d{1,2}:\d{2}(?::\d{2})?\s*(?:[AaPp][Mm])?)\s*[-–]\s*([^:]+):\s*(.*)$`)
	systemPattern  = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),?\s+(\d{1,2}:\d{2}(?::\d{2})?\s*(?:[AaPp][Mm])?)\s*[-–]\s*(.*)$`)
)

// Parse converts an exported transcript into message records in input order.
// Lines matching neither pattern are appended to the open record (multi-line
// messages) or dropped when no record is open. Parse never fails; a
// transcript with no recognizable lines yields an empty result.
func Parse(content string) []model.Message {
	var messages []model.Message
	var current *model.Message

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := messagePattern.FindStringSubmatch(trimmed); m != nil {
			if current != nil {
				messages = append(messages, *current)
			}

			body := strings.TrimSpace(m[4])
			msgType, mediaType := detectType(body)
			current = &model.Message{
				Timestamp: parseTimestamp(m[1], m[2]),
				Sender:    strings.TrimSpace(m[3]),
				Content:   body,
				Type:      msgType,
				MediaType: mediaType,
				IsDeleted: isDeletionMarker(body),
			}
			continue
		}

		if m := systemPattern.FindStringSubmatch(trimmed); m != nil {
			if current != nil {
				messages = append(messages, *current)
			}

			current = &model.Message{
				Timestamp: parseTimestamp(m[1], m[2]),
				Sender:    "System",
				Content:   strings.TrimSpace(m[3]),
				Type:      model.TypeSystem,
			}
			continue
		}

		if current != nil {
			current.Content += "\n" + trimmed
		}
	}

	if current != nil {
		messages = append(messages, *current)
	}

	return messages
}

// parseTimestamp builds a local time from "M/D/Y" and "H:MM[:SS] [AM/PM]"
// parts. Two-digit years are anchored to 2000; 12-hour clock times are
// normalized to 24-hour.
func parseTimestamp(dateStr, timeStr string) time.Time {
	dateParts := strings.Split(dateStr, "/")
	month, _ := strconv.Atoi(dateParts[0])
	day, _ := strconv.Atoi(dateParts[1])
	year, _ := strconv.Atoi(dateParts[2])
	if year < 100 {
		year += 2000
	}

	lower := strings.ToLower(timeStr)
	var hours, minutes int

	if strings.Contains(lower, "am") || strings.Contains(lower, "pm") {
		isPM := strings.Contains(lower, "pm")
		clean := strings.Map(func(r rune) rune {
			switch r {
			case 'a', 'A', 'p', 'P', 'm', 'M', ' ', '\t':
				return -1
			}
			return r
		}, timeStr)
		timeParts := strings.Split(clean, ":")
		hours, _ = strconv.Atoi(timeParts[0])
		if len(timeParts) > 1 {
			minutes, _ = strconv.Atoi(timeParts[1])
		}
		if isPM && hours != 12 {
			hours += 12
		} else if !isPM && hours == 12 {
			hours = 0
		}
	} else {
		timeParts := strings.Split(strings.TrimSpace(timeStr), ":")
		hours, _ = strconv.Atoi(timeParts[0])
		if len(timeParts) > 1 {
			minutes, _ = strconv.Atoi(timeParts[1])
		}
	}

	return time.Date(year, time.Month(month), day, hours, minutes, 0, 0, time.Local)
}

// detectType classifies a message body by its export markers.
func detectType(content string) (model.MessageType, model.MediaType) {
	lower := strings.ToLower(content)

	switch {
	case strings.Contains(lower, "<attached:"),
		strings.Contains(lower, "image omitted"),
		strings.Contains(lower, "photo omitted"):
		return model.TypeMedia, model.MediaPhoto
	case strings.Contains(lower, "video omitted"),
		strings.Contains(lower, ".mp4"):
		return model.TypeMedia, model.MediaVideo
	case strings.Contains(lower, "audio omitted"),
		strings.Contains(lower, "voice message"),
		strings.Contains(lower, "ptt"):
		return model.TypeVoice, model.MediaVoice
	case strings.Contains(lower, "document omitted"),
		strings.Contains(lower, ".pdf"),
		strings.Contains(lower, ".docx"):
		return model.TypeMedia, model.MediaDocument
	case strings.Contains(lower, "missed voice call"),
		strings.Contains(lower, "missed video call"),
		strings.Contains(lower, "voice call"),
		strings.Contains(lower, "video call"):
		return model.TypeCall, ""
	}

	return model.TypeText, ""
}

func isDeletionMarker(content string) bool {
	return strings.Contains(content, "This message was deleted") ||
		strings.Contains(content, "You deleted this message")
}
