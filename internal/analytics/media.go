package analytics

import "panion/internal/model"

// Per-item size assumptions in megabytes. Exports don't carry attachments,
// so total storage is a weighted estimate, not a measurement.
const (
	photoSizeMB    = 0.5
	videoSizeMB    = 5
	voiceSizeMB    = 0.3
	documentSizeMB = 1.2
)

// analyzeMedia counts media messages by sub-type, voice notes separately,
// and estimates total storage from fixed per-item sizes.
func (e *Engine) analyzeMedia() model.MediaStats {
	var photos, videos, voiceNotes, documents int

	for _, msg := range e.messages {
		switch msg.Type {
		case model.TypeMedia:
			switch msg.MediaType {
			case model.MediaPhoto:
				photos++
			case model.MediaVideo:
				videos++
			case model.MediaDocument:
				documents++
			}
		case model.TypeVoice:
			voiceNotes++
		}
	}

	totalMB := float64(photos)*photoSizeMB +
		float64(videos)*videoSizeMB +
		float64(voiceNotes)*voiceSizeMB +
		float64(documents)*documentSizeMB

	return model.MediaStats{
		Photos:     photos,
		Videos:     videos,
		VoiceNotes: voiceNotes,
		Documents:  documents,
		TotalSize:  totalMB * 1024 * 1024,
	}
}
