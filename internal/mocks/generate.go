// Package mocks provides mock implementations for testing the messaging service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockConversationRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(conv, nil)
package mocks

// Generate mock for ConversationRepository interface from internal/core package.
// This creates MockConversationRepository with methods for all ConversationRepository interface methods:
// Create, GetByID, ListByUser, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=conversation_repository_mock.go github.com/lionswap/messaging-api/internal/core ConversationRepository

// Generate mock for MessageRepository interface from internal/core package.
// This creates MockMessageRepository with methods for all MessageRepository interface methods:
// Create, GetByID, ListByConversation, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=message_repository_mock.go github.com/lionswap/messaging-api/internal/core MessageRepository

// Generate mock for SummaryCache interface from internal/core package.
// This creates MockSummaryCache with methods for all SummaryCache interface methods:
// Set, Get
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=summary_cache_mock.go github.com/lionswap/messaging-api/internal/core SummaryCache

// Generate mock for TokenVerifier interface from internal/core package.
// This creates MockTokenVerifier with methods for all TokenVerifier interface methods:
// Verify
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=token_verifier_mock.go github.com/lionswap/messaging-api/internal/core TokenVerifier
