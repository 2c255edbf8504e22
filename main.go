//go:build ignore

package main

import (
	"fmt"

	wave "github.com/wavebound/wave"
)

// curriedSum returns fn(x) = func(y) { return 2*x + y }, used below to
// demonstrate the applicative combinator: fn :> v1 :> v2.
func curriedSum(x int) func(int) int {
	return func(y int) int { return 2*x + y }
}

func main() {
	v1 := wave.NewVariable(10)
	v2 := wave.NewVariable(3)

	fnOfV1 := wave.Map(wave.Forever, v1, curriedSum)
	r := wave.Applicative[int, int](wave.Forever, fnOfV1, v2)

	fmt.Println("initial:", r.Value()) // 23

	if err := v1.Set(5); err != nil {
		fmt.Println("wave failed:", err)
		return
	}
	fmt.Println("after v1.Set(5):", r.Value()) // 13

	if err := v2.Set(0); err != nil {
		fmt.Println("wave failed:", err)
		return
	}
	fmt.Println("after v2.Set(0):", r.Value()) // 10
}
