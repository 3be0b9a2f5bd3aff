// SPDX-License-Identifier: EPL-2.0

// Package dir provides the dataset adapter for directory-per-subject
// layouts, where each subject has a directory of one audio file per
// measured position:
//
//	root/
//	  subject_003/
//	    azi0_ele0_left.wav
//	    azi0_ele0_right.wav
//	    azi45_ele-30_dist1.2.wav      (stereo: channel 0 left, 1 right)
//	  subject_008/
//	    ...
//
// File names declare the position: azi<degrees>_ele<degrees>, optionally
// followed by _dist<metres>, optionally followed by _left or _right.
// Files without a side suffix must carry one channel per ear. Angles are
// decimal numbers, azimuth counter-clockwise.
//
// Supported encodings are selected by file extension:
//   - .wav via github.com/go-audio/wav
//   - .aiff/.aif via github.com/go-audio/aiff
//   - .mp3 via github.com/hajimehoshi/go-mp3
//   - .ogg via github.com/jfreymuth/oggvorbis
//
// Files with other extensions are ignored; audio files whose names do not
// follow the layout fail enumeration.
package dir
