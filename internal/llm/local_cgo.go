//go:build llama

package llm

// cgo link directives for the in-process llama backend.
// - rpath $ORIGIN lets the runtime loader find libllama.so next to the
//   built binary (./bin).
// - -L${SRCDIR}/../../bin points the linker at libllama.so when building
//   the 'llama' variant.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"
