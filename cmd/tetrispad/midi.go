package main

// Registers the RtMidi backend used to reach the Launchpad.
import _ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
