// Package chat implements the conversation loop: condensing a follow-up
// question against history, retrieving supporting passages, and answering
// in the persona's voice. The Orchestrator ties the steps together and
// owns the conversation history; Manager multiplexes orchestrators per
// session.
package chat
