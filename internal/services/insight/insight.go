// Package insight строит промпты для генеративного провайдера и
// возвращает текст инсайта или молитвы по стиху.
package insight

import (
	"context"
	"fmt"
	"log/slog"
)

// KindPrayer значение поля type запроса для генерации молитвы;
// любое другое значение трактуется как обычный инсайт.
const KindPrayer = "prayer"

// maxPromptLen максимальная длина пользовательского контекста в символах,
// всё сверх обрезается до обращения к провайдеру.
const maxPromptLen = 1000

const (
	prayerTemplate = `Write a short, heartfelt, 1-2 sentence prayer based on the following. ` +
		`The prayer should help the user apply this verse to their daily life. ` +
		`Start with "Lord" or "Heavenly Father". Context: %s`
	insightTemplate = `Provide a brief, 2-sentence theological insight or practical application ` +
		`for the following. Keep it encouraging and simple for a general Christian audience. Context: %s`
)

// Provider исходящий вызов генеративного провайдера.
type Provider interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Service генерирует инсайты через внешнего провайдера.
type Service struct {
	provider Provider
	log      *slog.Logger
}

// New создает сервис инсайтов.
func New(provider Provider, log *slog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log,
	}
}

// Generate обрезает пользовательский контекст, подставляет его в шаблон по
// типу запроса и делает ровно один вызов провайдера без повторов.
func (s *Service) Generate(ctx context.Context, prompt, kind string) (string, error) {
	const op = "insight.Generate"

	sanitized := truncate(prompt, maxPromptLen)

	var fullPrompt string
	if kind == KindPrayer {
		fullPrompt = fmt.Sprintf(prayerTemplate, sanitized)
	} else {
		fullPrompt = fmt.Sprintf(insightTemplate, sanitized)
	}

	text, err := s.provider.GenerateContent(ctx, fullPrompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return text, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
