/*
Package streaming groups the data path of great-appender.

  - appender: builds the repeat buffer and writes it in a loop, publishing
    the running byte total after every write
  - queue: unbounded FIFO handing those totals to the reporter

The writer never blocks on the reporter. Closing the queue is how the writer
signals that no more totals will arrive.
*/
package streaming
