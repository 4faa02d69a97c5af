// Package bsonfile reads dump files: BSON documents laid end to end, as
// written by mongodump and most export tools.
//
// # Opening
//
// Open memory-maps the file. A file that starts with the zstd frame magic is
// decompressed into memory instead. Either way, documents are carved from
// the one backing buffer without copying:
//
//	f, err := bsonfile.Open("users.bson", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	for {
//	    doc, err := f.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    name, _ := doc.Path("name")
//	    fmt.Println(name)
//	    doc.Close()
//	}
//
// # Ownership
//
// Next only validates each document's length prefix and terminator; the
// document itself decodes on first access. The File keeps track of every
// document it handed out and closes the ones still open in Close, which also
// drops the mapping once the last carved view is released.
package bsonfile
