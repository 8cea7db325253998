package main

import (
	"fmt"
	"log"

	"github.com/rawbytedev/bitwire"
	"github.com/rawbytedev/bitwire/pkg/frame"
	"github.com/rawbytedev/bitwire/pkg/schemafile"
)

func main() {
	schema, err := schemafile.ParseJSON([]byte(
		`[["id","u8"],["flag","bool"],["tags",[["t","cstring"]]]]`))
	if err != nil {
		log.Fatal(err)
	}

	msg := bitwire.Value{
		"id":   uint32(5),
		"flag": true,
		"tags": []bitwire.Value{{"t": "a"}, {"t": "bb"}},
	}
	packed, err := bitwire.Marshal(schema, msg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("packed %d bytes: % x\n", len(packed), packed)

	framed, err := frame.Encode(packed, 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("framed %d bytes: % x\n", len(framed), framed)

	payload, _, err := frame.Decode(framed)
	if err != nil {
		log.Fatal(err)
	}
	decoded, err := bitwire.Unmarshal(payload, schema)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("decoded:", decoded)
}
