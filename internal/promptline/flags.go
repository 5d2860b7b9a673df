package promptline

import "strings"

const (
	flagAspectRatio = "--ar"
	flagStylize     = "--stylize"
	flagChaos       = "--chaos"
	flagRaw         = "--raw"
	flagProfile     = "--profile"
	flagStyleRef    = "--sref"
	flagStyleWeight = "--sw"
	flagSeed        = "--seed"
)

// FlagOrder is the relative order flags take in a compiled line.
var FlagOrder = []string{
	flagAspectRatio,
	flagStylize,
	flagChaos,
	flagRaw,
	flagProfile,
	flagStyleRef,
	flagStyleWeight,
	flagSeed,
}

func isFlag(tok string) bool {
	return strings.HasPrefix(tok, "--")
}

// leadingInt splits tok into a leading integer, with an optional sign, and
// the rest. Without digits after the sign it returns "" and tok.
func leadingInt(tok string) (string, string) {
	i := 0
	if i < len(tok) && (tok[i] == '-' || tok[i] == '+') {
		i++
	}
	start := i
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == start {
		return "", tok
	}
	return tok[:i], tok[i:]
}

func isURLToken(tok string) bool {
	return strings.HasPrefix(tok, "http://") || strings.HasPrefix(tok, "https://")
}
