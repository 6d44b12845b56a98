package assert

import "github.com/velutils/climb/cerror"

// IsTrue panics with a ClimbError holding the formatted message if ok is false.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(cerror.New(message, args...))
	}
}
