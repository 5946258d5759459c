package integeriser_test

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/integeriser/pkg/integeriser"
)

func ExampleHashed() {
	table := integeriser.NewHashed[string]()

	fmt.Println(integeriser.IntegeriseAll(table, slices.Values(strings.Fields("this is a test ."))))
	fmt.Println(integeriser.IntegeriseAll(table, slices.Values(strings.Fields("this test is really simple ."))))

	value, _ := table.FindValue(5)
	fmt.Println(value, table.Size())
	// Output:
	// [0 1 2 3 4]
	// [0 3 1 5 6 4]
	// really 7
}

func ExampleOrdered() {
	table := integeriser.NewOrdered[int]()

	for _, n := range []int{30, 10, 30, 20} {
		fmt.Print(table.Integerise(n), " ")
	}

	_, found := table.FindKey(40)
	fmt.Println(found)
	// Output: 0 1 0 2 false
}

func ExampleNewHashedFrom() {
	var values []string

	data, _ := json.Marshal([]string{"red", "green", "blue"})
	_ = json.Unmarshal(data, &values)

	table, err := integeriser.NewHashedFrom(values)
	if err != nil {
		fmt.Println(err)

		return
	}

	code, _ := table.FindKey("blue")
	fmt.Println(code)

	_, err = integeriser.NewHashedFrom([]string{"red", "red"})
	fmt.Println(err)
	// Output:
	// 2
	// malformed value sequence: value at position 1 repeats position 0
}
