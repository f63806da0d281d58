// Command redisval reads and writes typed values in Redis from the shell,
// converting between the serializer stored in Redis and the one you type or
// want printed.
//
//	redisval set user:1 '{"id":1,"name":"Ziggy"}' --serializer yaml
//	redisval get user:1 --serializer yaml --output json
//	redisval json-get user:1 '$.name'
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
