package chat

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/nerdfault/quill/internal/config"
	"github.com/nerdfault/quill/internal/eventbus"
	"github.com/nerdfault/quill/internal/models"
	"github.com/nerdfault/quill/internal/tools"
	"github.com/nerdfault/quill/internal/transport"
)

// Service glues the orchestrator to the event bus: it consumes UI events,
// drives Respond, and pushes transcript and status updates back to the UI.
type Service struct {
	orchestrator *Orchestrator
	store        Store
	eventBus     *eventbus.EventBus
	config       *config.Config
	ctx          context.Context
	cancel       context.CancelFunc
	log          zerolog.Logger

	programMessages []models.Message
	isProcessing    bool
	lastError       error
	lastSentCount   int
}

// NewService builds a Service regardless of config validity, so there is
// always something to drive the UI. The orchestrator is only wired when
// the active profile has an API key.
func NewService(cfg *config.Config, eb *eventbus.EventBus, log zerolog.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	service := &Service{
		store:    NewMemoryStore(),
		eventBus: eb,
		config:   cfg,
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
	}

	if cfg.IsValid() {
		registry := tools.NewRegistry()
		tools.RegisterBuiltins(registry)

		workDir, _ := os.Getwd()
		client := transport.NewHTTPClient(
			cfg.GetBaseURL(),
			cfg.GetAPIKey(),
			transport.WithLogger(log),
			transport.WithTruncate(cfg.LogTruncate),
		)

		service.orchestrator = NewOrchestrator(Options{
			Transport:     client,
			Store:         service.store,
			Status:        &busStatus{eventBus: eb, inner: NewMemoryStatus()},
			Registry:      registry,
			Model:         cfg.GetModel(),
			VectorStoreID: cfg.GetVectorStoreID(),
			Env:           &tools.Env{WorkDir: workDir},
			Logger:        log,
		})
	}

	service.addWelcomeMessages(cfg)
	return service
}

// Start runs the core event loop in a goroutine.
func (s *Service) Start() {
	s.pushStateToUI()
	go s.eventLoop()
}

func (s *Service) Stop() {
	s.cancel()
}

func (s *Service) IsReady() bool {
	return s.orchestrator != nil
}

func (s *Service) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.eventBus.UIToCore():
			if !ok {
				return
			}
			if e, ok := event.(eventbus.SendMessageEvent); ok {
				s.processMessage(e.Message)
			}
		}
	}
}

func (s *Service) processMessage(userMessage string) {
	if s.orchestrator == nil {
		s.lastError = fmt.Errorf("no API key configured")
		s.pushStateToUI()
		return
	}

	s.isProcessing = true
	s.lastError = nil
	s.pushStateToUI()

	// Respond appends the user message itself; the loop runs to
	// completion before the next UI event is consumed.
	_, err := s.orchestrator.Respond(s.ctx, userMessage)

	s.isProcessing = false
	if err != nil {
		s.lastError = err
		s.log.Error().Err(err).Msg("respond failed")
	}
	s.pushStateToUI()
}

func (s *Service) pushStateToUI() {
	allMessages := s.uiMessages()

	// Only send new messages to reduce resource usage
	newMessages := allMessages[min(s.lastSentCount, len(allMessages)):]
	s.lastSentCount = len(allMessages)

	if err := s.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Messages:     newMessages,
		IsProcessing: s.isProcessing,
		Error:        s.lastError,
	}); err != nil {
		s.log.Warn().Err(err).Msg("state push failed")
	}
}

// uiMessages renders program messages plus the stored transcript.
func (s *Service) uiMessages() []models.Message {
	var result []models.Message
	result = append(result, s.programMessages...)

	stored, err := s.store.Read()
	if err != nil {
		s.log.Warn().Err(err).Msg("transcript read failed")
		return result
	}
	for _, msg := range stored {
		result = append(result, models.Message{
			Content: msg.Content,
			Type:    uiType(msg.Role),
		})
	}
	return result
}

func uiType(role string) models.MessageType {
	switch role {
	case RoleUser:
		return models.User
	case RoleAssistant:
		return models.Assistant
	case RoleSystem:
		return models.System
	case RoleTool:
		return models.Tool
	default:
		return models.Program
	}
}

func (s *Service) addProgramMessage(content string) {
	s.programMessages = append(s.programMessages, models.Message{
		Content: content,
		Type:    models.Program,
	})
}

func (s *Service) addWelcomeMessages(cfg *config.Config) {
	s.addProgramMessage("-- QUILL --")

	if cfg.IsValid() {
		s.addProgramMessage(fmt.Sprintf("Active Profile: %s [OK]", cfg.ActiveProfile))
		if cfg.GetVectorStoreID() != "" {
			s.addProgramMessage("Document retrieval: enabled")
		}
		s.addProgramMessage("Ready to chat! Type your message and press Enter")
	} else {
		s.addProgramMessage(fmt.Sprintf("Active Profile: %s [NOT CONFIGURED]", cfg.ActiveProfile))
		s.addProgramMessage("Configure your profile to start chatting:")
		s.addProgramMessage("• Run: quill profile add <name>")
		s.addProgramMessage("• Or edit: ~/.quill/config.json")
	}

	s.addProgramMessage("Controls: Ctrl+C or 'q' to exit")
	s.addProgramMessage("")
}

// busStatus forwards orchestration progress to the UI while keeping the
// last value readable for pollers.
type busStatus struct {
	eventBus *eventbus.EventBus
	inner    *MemoryStatus
}

func (b *busStatus) SetStatus(text string) {
	b.inner.SetStatus(text)
	// best effort: a full bus drops the status line, never blocks the loop
	_ = b.eventBus.SendToUI(eventbus.StatusUpdateEvent{Text: text})
}

func (b *busStatus) Status() (string, bool) {
	return b.inner.Status()
}
