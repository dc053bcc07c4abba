// Package llm provides a config-driven chat-completion client built on
// httpclient.
//
// The adapter works with any provider via the Dialect pattern, similar to
// how database/sql works with driver packages:
//   - Universal types: [CompletionRequest], [CompletionResponse], [Message], [Usage]
//   - [Dialect] maps universal types to/from a provider's HTTP format
//   - [Adapter] composes an httpclient.Client and a Dialect
//   - Dialect registry: [RegisterDialect] / [GetDialect]
//   - Helpers: [Complete], [CompleteStructured], [ExtractJSON]
//
// # Usage
//
//	import (
//	    "github.com/kbukum/scribe/llm"
//	    _ "github.com/kbukum/scribe/llm/openai" // registers "openai"
//	)
//
//	adapter, err := llm.New(llm.Config{Dialect: "openai", APIKey: key})
//	resp, err := adapter.Execute(ctx, llm.CompletionRequest{
//	    Messages: []llm.Message{{Role: "user", Content: "Hello!"}},
//	})
//	if resp.Truncated() {
//	    // the model hit MaxTokens
//	}
package llm
