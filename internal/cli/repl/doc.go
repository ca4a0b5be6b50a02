// Package repl implements the shardkv-cli interactive shell.
//
// Each input line is split into arguments (single and double quotes group
// words, backslash escapes the next character) and handed to an Executor,
// normally the CLI app itself. Lines are kept in a History that is
// persisted between sessions.
package repl
