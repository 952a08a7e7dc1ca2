// Package compression provides an optional outer encoding for host-file dumps
// of a PNFS volume.
//
// A PNFS image is exactly 128,000 bytes (250 blocks of 512 bytes each), and a
// mostly-empty volume is mostly null bytes: a handful of populated node
// records and directory blocks surrounded by blocks nobody has allocated yet.
// Run-length encoding the raw image before gzipping it squeezes that dead
// space out; a freshly formatted volume compresses to well under a hundred
// bytes this way, against the 128,000-byte original.
//
// There are a variety of run-length encodings; this document refers strictly to
// the algorithm used by the Microsoft BMP file format, also known as RLE8. A
// brief explanation: if a byte B occurs N times where N >= 2, B is written twice,
// followed by a third (unsigned) byte indicating how many additional times B
// occurred. For example:
//
// 		WXXXXXXXXXXXXXXXYZZ
//		W XX 13 Y ZZ 0
//
// This scheme lets us represent runs of up to 257 bytes with three bytes. For
// runs longer than 257 bytes, they are treated as separate runs. For example,
// a run of 300 "X" is represented as `XX 255 XX 41`. Unfortunately, using a byte
// as its own escape sequence means that occurrences of the same byte exactly
// twice are stored as three bytes: the two bytes followed by a null byte
// indicating no further repetition.

package compression
