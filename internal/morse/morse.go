// internal/morse/morse.go
// Package morse translates text into Morse code symbol sequences.
package morse

import "strings"

// Symbol is a single Morse pulse type.
type Symbol int

const (
	// Dot is the short pulse (one unit)
	Dot Symbol = iota
	// Dash is the long pulse (three units)
	Dash
)

// String returns the conventional notation for the symbol.
func (s Symbol) String() string {
	if s == Dash {
		return "-"
	}
	return "."
}

// Character is the symbol sequence for one text character.
type Character []Symbol

// Word is an ordered sequence of characters. A word whose characters
// were all unencodable is kept as an empty placeholder.
type Word []Character

// Message is an ordered sequence of words.
type Message []Word

// Symbols returns the total number of symbols across the whole message.
func (m Message) Symbols() int {
	n := 0
	for _, w := range m {
		for _, c := range w {
			n += len(c)
		}
	}
	return n
}

// table maps uppercase runes to their dot/dash notation (ITU letters,
// digits and punctuation, plus Swedish and other accented letters).
var table = map[rune]string{
	'A': ".-",
	'B': "-...",
	'C': "-.-.",
	'D': "-..",
	'E': ".",
	'F': "..-.",
	'G': "--.",
	'H': "....",
	'I': "..",
	'J': ".---",
	'K': "-.-",
	'L': ".-..",
	'M': "--",
	'N': "-.",
	'O': "---",
	'P': ".--.",
	'Q': "--.-",
	'R': ".-.",
	'S': "...",
	'T': "-",
	'U': "..-",
	'V': "...-",
	'W': ".--",
	'X': "-..-",
	'Y': "-.--",
	'Z': "--..",

	'0': "-----",
	'1': ".----",
	'2': "..---",
	'3': "...--",
	'4': "....-",
	'5': ".....",
	'6': "-....",
	'7': "--...",
	'8': "---..",
	'9': "----.",

	'.':  ".-.-.-",
	',':  "--..--",
	'?':  "..--..",
	'\'': ".----.",
	'!':  "-.-.--",
	'/':  "-..-.",
	'(':  "-.--.",
	')':  "-.--.-",
	'&':  ".-...",
	':':  "---...",
	';':  "-.-.-.",
	'=':  "-...-",
	'+':  ".-.-.",
	'-':  "-....-",
	'_':  "..--.-",
	'"':  ".-..-.",
	'$':  "...-..-",
	'@':  ".--.-.",

	// Swedish
	'Å': ".--.-",
	'Ä': ".-.-",
	'Ö': "---.",
	// Other accented letters with standard codes
	'À': ".--.-",
	'É': "..-..",
	'È': ".-..-",
	'Ü': "..--",
	'Ñ': "--.--",
}

// Translate converts free text into a Message. Input is uppercased and
// split on whitespace; runes without a table entry are dropped. Words
// that lose every character survive as empty placeholders so word
// boundaries stay intact.
func Translate(text string) Message {
	fields := strings.Fields(strings.ToUpper(text))
	msg := make(Message, 0, len(fields))
	for _, field := range fields {
		word := make(Word, 0, len(field))
		for _, r := range field {
			code, ok := table[r]
			if !ok {
				continue
			}
			word = append(word, parseCode(code))
		}
		msg = append(msg, word)
	}
	return msg
}

func parseCode(code string) Character {
	char := make(Character, 0, len(code))
	for _, r := range code {
		if r == '-' {
			char = append(char, Dash)
		} else {
			char = append(char, Dot)
		}
	}
	return char
}
