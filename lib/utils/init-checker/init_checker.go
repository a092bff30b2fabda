package initchecker

import "fmt"

// CheckInit panics on a nil dependency, pairs of (name, value)
func CheckInit(pairs ...any) {
	if len(pairs)%2 != 0 {
		panic("CheckInit: odd number of arguments")
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("CheckInit: first argument of pair must be string")
		}
		if pairs[i+1] == nil {
			panic(fmt.Sprintf("%s dependency not initialized", name))
		}
	}
}
