package keywords

// Turkish stopword list used when ranking title terms.
var turkishStopwords = map[string]bool{
	"acaba": true, "ama": true, "ancak": true, "aslında": true, "az": true,
	"bana": true, "bazı": true, "belki": true, "ben": true, "beni": true,
	"bir": true, "biri": true, "birkaç": true, "birşey": true, "biz": true,
	"bu": true, "bunlar": true, "çok": true, "çünkü": true, "da": true,
	"daha": true, "de": true, "defa": true, "diye": true, "eğer": true,
	"en": true, "gibi": true, "hem": true, "hep": true, "hepsi": true,
	"her": true, "hiç": true, "için": true, "ile": true, "ise": true,
	"kez": true, "ki": true, "kim": true, "mı": true, "mi": true,
	"mu": true, "mü": true, "nasıl": true, "ne": true, "neden": true,
	"nerde": true, "nerede": true, "nereye": true, "niçin": true,
	"niye": true, "o": true, "sanki": true, "sen": true, "şey": true,
	"siz": true, "şu": true, "tüm": true, "ve": true, "veya": true,
	"ya": true, "yani": true,
}
