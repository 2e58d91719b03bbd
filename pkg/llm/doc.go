// Package llm defines the text-generation collaborator behind the chat
// completions endpoint.
//
// The gateway treats generation as an external concern: handlers only
// see the Completer interface. The bundled MockCompleter produces
// canned responses and is the default backend; it exists so the
// gateway's admission and auth behavior can be exercised end to end
// without a real model.
package llm
