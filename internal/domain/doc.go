// Package domain contains the core domain entities and value objects for
// tweetbot.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HTTP, NATS, logging) and contains
// only pure business logic.
//
// # Entities
//
//   - [ChannelSubscription]: One channel's watch list (destination + account handles)
//   - [FilterRule] / [RuleSet]: The compiled provider-side filter rules
//   - [MatchedEvent]: A post delivered by the filtered stream, with repost linkage
//   - [SessionState] / [Transition]: The stream session lifecycle state machine
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
