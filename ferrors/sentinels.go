package ferrors

// ErrNoFreeNodes is returned when the node table has no slot whose on-disk
// type is NodeTypeInvalid. Node ID 0 is never returned as a successful
// allocation; exhaustion is always reported through this sentinel instead.
const ErrNoFreeNodes = PnfsError("no free node slots")

// ErrNoFreeBlocks is returned when the free-block bitmap has no clear bit.
const ErrNoFreeBlocks = PnfsError("no free blocks on device")

// ErrNotFound covers path resolution failures and missing directory entries.
const ErrNotFound = PnfsError("no such file or directory")

// ErrNotADirectory is returned when a path component or listing target isn't
// a DIRECTORY node.
const ErrNotADirectory = PnfsError("not a directory")

// ErrIsADirectory is returned when a file-only operation is attempted on a
// DIRECTORY node.
const ErrIsADirectory = PnfsError("is a directory")

// ErrInvalidNodeType is returned by AddNode for any type argument other than
// NodeTypeFile or NodeTypeDirectory.
const ErrInvalidNodeType = PnfsError("invalid node type")

// ErrRejected covers policy rejections: removing the root node or a node's
// own self-entry, and arguments that name nothing usable (a missing
// argument, an empty path, a negative offset). A duplicate name is reported
// as ErrExists instead.
const ErrRejected = PnfsError("operation rejected")

// ErrExists is returned when a create/mkdir target name is already present.
const ErrExists = PnfsError("name already exists")

// ErrCorrupt is returned when on-disk structures fail a sanity check, e.g. a
// restored image whose magic doesn't match.
const ErrCorrupt = PnfsError("structure needs cleaning")

// ErrUnexpectedEOF is returned when a host image's length doesn't match the
// fixed device size.
const ErrUnexpectedEOF = PnfsError("unexpected end of image")
