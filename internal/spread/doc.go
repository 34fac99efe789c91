// Package spread adapts a function of N positional parameters into a
// function that accepts an ordered []any tuple, such as the output of a
// fan-in join. Position i of the tuple is bound to parameter i.
package spread
