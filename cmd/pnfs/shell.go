package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Vild/PNFS/blockdev"
	"github.com/Vild/PNFS/compression"
	"github.com/Vild/PNFS/ferrors"
	"github.com/Vild/PNFS/fs"
	"github.com/Vild/PNFS/geometry"
)

// shell holds the single mounted volume a REPL session operates on, plus
// its current working directory. There's exactly one volume per session;
// PNFS has no concept of mounting more than one device at a time.
type shell struct {
	device *blockdev.Device
	sb     *fs.Superblock
	cwd    fs.NodeID
	quit   bool
}

func newShell() *shell {
	device := blockdev.New()
	sb := fs.NewSuperblock(device)
	if err := sb.Format(); err != nil {
		panic(fmt.Sprintf("failed to format initial volume: %s", err))
	}
	return &shell{device: device, sb: sb, cwd: fs.NodeRoot}
}

// absolutePath walks a directory's ".." chain back to the root, reading its
// name out of each parent's entries along the way, and joins the result.
// Directories don't store their own name, only their parent does.
func (s *shell) absolutePath(id fs.NodeID) (string, error) {
	if id == fs.NodeRoot {
		return "/", nil
	}

	var parts []string
	current := id
	for current != fs.NodeRoot {
		node := s.sb.GetNode(current)
		if node.Type != fs.NodeTypeDirectory {
			return "", ferrors.ErrNotADirectory
		}
		entries, count := s.sb.DirectoryEntries(node)

		var parentID fs.NodeID
		found := false
		for i := 0; i < count; i++ {
			if entries[i].Name == ".." {
				parentID = entries[i].ID
				found = true
				break
			}
		}
		if !found {
			return "", ferrors.ErrCorrupt.WithMessage("directory missing .. entry")
		}

		parentNode := s.sb.GetNode(parentID)
		pentries, pcount := s.sb.DirectoryEntries(parentNode)
		name := ""
		for i := 0; i < pcount; i++ {
			if pentries[i].ID == current && pentries[i].Name != "." && pentries[i].Name != ".." {
				name = pentries[i].Name
				break
			}
		}
		parts = append([]string{name}, parts...)
		current = parentID
	}
	return "/" + strings.Join(parts, "/"), nil
}

func (s *shell) resolveDir(path string) (fs.NodeID, fs.NodeRecord, error) {
	id, err := s.sb.Resolve(s.cwd, path)
	if err != nil {
		return fs.NodeInvalid, fs.NodeRecord{}, err
	}
	node := s.sb.GetNode(id)
	if node.Type != fs.NodeTypeDirectory {
		return fs.NodeInvalid, fs.NodeRecord{}, ferrors.ErrNotADirectory
	}
	return id, node, nil
}

func arg(c *cli.Context, index int) (string, error) {
	if c.Args().Len() <= index {
		return "", ferrors.ErrRejected.WithMessage("missing required argument")
	}
	return c.Args().Get(index), nil
}

func newApp(s *shell) *cli.App {
	return &cli.App{
		Name:  "pnfs",
		Usage: "Inspect and manipulate a PNFS volume",
		CommandNotFound: func(c *cli.Context, name string) {
			fmt.Fprintf(c.App.Writer, "unknown command %q\n", name)
		},
		Commands: []*cli.Command{
			{
				Name:      "pwd",
				Usage:     "Print the current working directory",
				ArgsUsage: " ",
				Action: func(c *cli.Context) error {
					path, err := s.absolutePath(s.cwd)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, path)
					return nil
				},
			},
			{
				Name:      "cd",
				Usage:     "Change the current working directory",
				ArgsUsage: "PATH",
				Action: func(c *cli.Context) error {
					path, err := arg(c, 0)
					if err != nil {
						return err
					}
					id, _, err := s.resolveDir(path)
					if err != nil {
						return err
					}
					s.cwd = id
					return nil
				},
			},
			{
				Name:      "ls",
				Usage:     "List a directory's entries",
				ArgsUsage: "[PATH]",
				Action: func(c *cli.Context) error {
					path := "."
					if c.Args().Len() > 0 {
						path = c.Args().Get(0)
					}
					_, node, err := s.resolveDir(path)
					if err != nil {
						return err
					}
					entries, count := s.sb.DirectoryEntries(node)
					for i := 0; i < count; i++ {
						e := entries[i]
						child := s.sb.GetNode(e.ID)
						fmt.Fprintf(c.App.Writer, "%-6s %4d  %s\n", child.Type, e.ID, e.Name)
					}
					return nil
				},
			},
			{
				Name:      "mkdir",
				Usage:     "Create a directory",
				ArgsUsage: "PATH",
				Action: func(c *cli.Context) error {
					path, err := arg(c, 0)
					if err != nil {
						return err
					}
					parentID, name, err := s.sb.ResolveParentAndName(s.cwd, path)
					if err != nil {
						return err
					}
					_, err = s.sb.AddNode(parentID, fs.NodeTypeDirectory, name)
					return err
				},
			},
			{
				Name:      "create",
				Usage:     "Create an empty file",
				ArgsUsage: "PATH",
				Action: func(c *cli.Context) error {
					path, err := arg(c, 0)
					if err != nil {
						return err
					}
					parentID, name, err := s.sb.ResolveParentAndName(s.cwd, path)
					if err != nil {
						return err
					}
					_, err = s.sb.AddNode(parentID, fs.NodeTypeFile, name)
					return err
				},
			},
			{
				Name:      "rm",
				Usage:     "Remove a file or an empty-or-not directory, recursively",
				ArgsUsage: "PATH",
				Action: func(c *cli.Context) error {
					path, err := arg(c, 0)
					if err != nil {
						return err
					}
					parentID, name, err := s.sb.ResolveParentAndName(s.cwd, path)
					if err != nil {
						return err
					}
					if name == "." || name == ".." {
						return ferrors.ErrRejected.WithMessage("cannot remove . or ..")
					}
					targetID, err := s.sb.Resolve(parentID, name)
					if err != nil {
						return err
					}
					removed, err := s.sb.RemoveNode(parentID, targetID)
					if err != nil {
						return err
					}
					if !removed {
						return ferrors.ErrRejected.WithMessage("refused to remove " + path)
					}
					return nil
				},
			},
			{
				Name:      "cat",
				Usage:     "Print a file's contents",
				ArgsUsage: "PATH",
				Action: func(c *cli.Context) error {
					path, err := arg(c, 0)
					if err != nil {
						return err
					}
					id, err := s.sb.Resolve(s.cwd, path)
					if err != nil {
						return err
					}
					node := s.sb.GetNode(id)
					if node.Type == fs.NodeTypeDirectory {
						return ferrors.ErrIsADirectory
					}
					data, err := s.sb.ReadData(node, 0, int(node.Size))
					if err != nil {
						return err
					}
					c.App.Writer.Write(data)
					return nil
				},
			},
			{
				Name:      "copy",
				Usage:     "Copy one volume file's contents into another",
				ArgsUsage: "FROM TO",
				Action: func(c *cli.Context) error {
					srcPath, err := arg(c, 0)
					if err != nil {
						return err
					}
					dstPath, err := arg(c, 1)
					if err != nil {
						return err
					}

					srcID, err := s.sb.Resolve(s.cwd, srcPath)
					if err != nil {
						return err
					}
					srcNode := s.sb.GetNode(srcID)
					if srcNode.Type != fs.NodeTypeFile {
						return ferrors.ErrIsADirectory
					}
					data, err := s.sb.ReadData(srcNode, 0, int(srcNode.Size))
					if err != nil {
						return err
					}

					id, err := s.sb.Resolve(s.cwd, dstPath)
					var node fs.NodeRecord
					if err == nil {
						node = s.sb.GetNode(id)
						if node.Type != fs.NodeTypeFile {
							return ferrors.ErrIsADirectory
						}
						if err := s.sb.Truncate(&node, 0); err != nil {
							return err
						}
					} else {
						parentID, name, perr := s.sb.ResolveParentAndName(s.cwd, dstPath)
						if perr != nil {
							return perr
						}
						node, err = s.sb.AddNode(parentID, fs.NodeTypeFile, name)
						if err != nil {
							return err
						}
					}
					return s.sb.WriteData(&node, 0, data)
				},
			},
			{
				Name:      "format",
				Usage:     "Wipe the volume and recreate an empty root directory",
				ArgsUsage: " ",
				Action: func(c *cli.Context) error {
					if err := s.sb.Format(); err != nil {
						return err
					}
					s.cwd = fs.NodeRoot
					return nil
				},
			},
			{
				Name:      "createImage",
				Usage:     "Dump the volume to a host file",
				ArgsUsage: "HOST_FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "compressed", Usage: "RLE8+gzip the dump"},
				},
				Action: func(c *cli.Context) error {
					hostPath, err := arg(c, 0)
					if err != nil {
						return err
					}
					image := s.sb.SaveImage()

					out, err := os.Create(hostPath)
					if err != nil {
						return err
					}
					defer out.Close()

					if c.Bool("compressed") {
						_, err = compression.CompressImage(bytes.NewReader(image), out)
						return err
					}
					_, err = out.Write(image)
					return err
				},
			},
			{
				Name:      "restoreImage",
				Usage:     "Replace the volume with a host image's contents",
				ArgsUsage: "HOST_FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "compressed", Usage: "the host file is RLE8+gzip encoded"},
				},
				Action: func(c *cli.Context) error {
					hostPath, err := arg(c, 0)
					if err != nil {
						return err
					}
					raw, err := os.ReadFile(hostPath)
					if err != nil {
						return err
					}

					var image []byte
					if c.Bool("compressed") {
						image, err = compression.DecompressImageToBytes(bytes.NewReader(raw))
						if err != nil {
							return err
						}
					} else {
						image = raw
					}

					if err := geometry.Standard().Validate(len(image)); err != nil {
						return ferrors.ErrUnexpectedEOF.WrapError(err)
					}
					if err := s.sb.LoadImage(image); err != nil {
						if !errors.Is(err, ferrors.ErrCorrupt) {
							return err
						}
						if err := s.sb.Format(); err != nil {
							return err
						}
						fmt.Fprintln(c.App.Writer, "image magic does not match PNFS; volume formatted")
					}
					s.cwd = fs.NodeRoot
					return nil
				},
			},
			{
				Name:  "exit",
				Usage: "Leave the shell",
				Action: func(c *cli.Context) error {
					s.quit = true
					return nil
				},
			},
			{
				Name:  "quit",
				Usage: "Leave the shell",
				Action: func(c *cli.Context) error {
					s.quit = true
					return nil
				},
			},
		},
	}
}
