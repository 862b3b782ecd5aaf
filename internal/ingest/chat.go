package ingest

import (
	"context"

	"github.com/robertobuso/legal-evidence-organizer/internal/extractor"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type ChatIngestor struct {
	parser *extractor.ChatParser
	store  repository.ChatStore
	logger *utils.Logger
}

func NewChatIngestor(parser *extractor.ChatParser, store repository.ChatStore, logger *utils.Logger) *ChatIngestor {
	return &ChatIngestor{parser: parser, store: store, logger: logger}
}

// Parse decodes and parses a chat export. Undecodable input yields an empty list.
func (i *ChatIngestor) Parse(data []byte, filePath string) []models.ChatMessage {
	text, err := extractor.DecodeText(data)
	if err != nil {
		i.logger.Error("failed to read chat file", "file_path", filePath, "error", err)
		return []models.ChatMessage{}
	}

	msgs := i.parser.Parse(text, filePath)
	i.logger.Info("processed chat log", "file_path", filePath, "messages", len(msgs))
	return msgs
}

// Ingest parses and stores every message. Re-ingesting the same file stores
// its messages again.
func (i *ChatIngestor) Ingest(ctx context.Context, data []byte, filePath string) (Result, error) {
	msgs := i.Parse(data, filePath)
	if err := i.store.CreateChatMessages(ctx, msgs); err != nil {
		return Result{Parsed: len(msgs)}, err
	}
	return Result{Parsed: len(msgs), Created: len(msgs)}, nil
}
