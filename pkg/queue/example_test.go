package queue_test

import (
	"fmt"

	"github.com/matzehuels/trackgraph/pkg/queue"
)

func ExampleQueue() {
	q := queue.New[string]()
	q.Enqueue("A1")
	q.Enqueue("B2")
	q.Enqueue("C3")

	front, _ := q.Dequeue()
	fmt.Println(front)

	for hex := range q.All() {
		fmt.Println(hex)
	}
	// Output:
	// A1
	// B2
	// C3
}
