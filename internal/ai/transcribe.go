package ai

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/dremassist/obrabot/internal/config"
)

const transcribePrompt = "Transcreva este áudio em texto. Responda apenas com a transcrição completa."

// Transcribe converts a voice note to text. An empty string means the audio
// could not be transcribed; the caller decides how to reply.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	parts := []any{
		map[string]any{"type": "text", "text": transcribePrompt},
		map[string]any{
			"type": "input_audio",
			"input_audio": map[string]string{
				"data":   base64.StdEncoding.EncodeToString(audio),
				"format": audioFormat(mimeType),
			},
		},
	}

	resp, err := c.complete(ctx, config.TranscribeModel, []Message{{Role: "user", Content: parts}}, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

func audioFormat(mimeType string) string {
	mt := strings.ToLower(mimeType)
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	switch mt {
	case "audio/ogg", "audio/opus", "application/ogg":
		return "ogg"
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/wav", "audio/x-wav":
		return "wav"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "m4a"
	default:
		if i := strings.Index(mt, "/"); i >= 0 && i+1 < len(mt) {
			return mt[i+1:]
		}
		return "ogg"
	}
}
