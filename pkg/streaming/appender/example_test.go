package appender_test

import (
	"bytes"
	"fmt"

	"github.com/vnykmshr/great-appender/pkg/shutdown"
	"github.com/vnykmshr/great-appender/pkg/streaming/appender"
	"github.com/vnykmshr/great-appender/pkg/streaming/queue"
)

func ExampleBuildRepeatBuffer() {
	fmt.Printf("%q\n", appender.BuildRepeatBuffer("x", 10))
	fmt.Printf("%q\n", appender.BuildRepeatBuffer("hello", 1))
	fmt.Printf("%q\n", appender.BuildRepeatBuffer("hello", 0))

	// Output:
	// "x\nx\nx\nx\nx\n"
	// "hello\n"
	// "hello\n"
}

// stopAfter sets its flag once n writes have reached the destination.
type stopAfter struct {
	bytes.Buffer
	n    int
	flag *shutdown.Flag
}

func (s *stopAfter) Write(p []byte) (int, error) {
	s.n--
	if s.n == 0 {
		s.flag.Set()
	}
	return s.Buffer.Write(p)
}

func ExampleAppender_Run() {
	flag := shutdown.New()
	dst := &stopAfter{n: 3, flag: flag}

	a := appender.New(dst, appender.BuildRepeatBuffer("ab", 6))
	q := queue.New[uint64]()

	if err := a.Run(flag, q); err != nil {
		fmt.Println("error:", err)
		return
	}

	for {
		total, ok, err := q.TryReceive()
		if err != nil || !ok {
			break
		}
		fmt.Println(total)
	}
	fmt.Printf("%q\n", dst.String()[:9])

	// Output:
	// 6
	// 12
	// 18
	// "ab\nab\nab\n"
}
