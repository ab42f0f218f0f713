package pycore

// Version identifies the engine for compatibility reporting. It is the only
// ambient global state besides the message translator.
const Version = "0.1.0"
